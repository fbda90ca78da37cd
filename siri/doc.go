// Package siri defines SIRI (Service Interface for Real-time Information) data types.
//
// SIRI is a European standard (CEN/TS 15531) for real-time public transport
// information. This package contains the Go structs for the two SIRI documents
// the Bus Open Data Service (BODS) requires of an operator feed:
//
//   - VehicleMonitoringDelivery (VM): real-time vehicle locations and journeys
//   - CheckStatusResponse: service liveness as mandated by BODS
//
// All timestamp fields are pre-formatted strings in the BODS profile format
// (UTC, millisecond precision, literal "Z" suffix). Types carry JSON tags for
// the JSON rendition of the feed; XML serialization is done by package
// formatter, which controls element order and omission explicitly.
package siri
