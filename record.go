package bodsfeed

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidityWindow is the fixed duration after which a reported position is
// considered stale. It drives both the per-activity ValidUntilTime and the
// delivery-level ValidUntilTime.
const ValidityWindow = 30 * time.Second

// Direction values for VehiclePositionRecord.DirectionRef
const (
	DirectionInbound  = "INBOUND"
	DirectionOutbound = "OUTBOUND"
)

// Occupancy values for VehiclePositionRecord.Occupancy
const (
	OccupancySeatsAvailable    = "seatsAvailable"
	OccupancyStandingAvailable = "standingAvailable"
	OccupancyFull              = "full"
)

// VehiclePositionRecord is a single point-in-time snapshot for one vehicle.
// Records are immutable once produced for a render cycle.
//
// Optional fields follow an explicit per-field absence rule: pointer fields
// are absent when nil; OriginName, DestinationName, Occupancy and BlockRef
// are absent when empty. The renderer omits absent fields entirely from the
// XML document.
type VehiclePositionRecord struct {
	VehicleRef        string `json:"vehicle_ref" validate:"required"`
	LineRef           string `json:"line_ref" validate:"required"`
	PublishedLineName string `json:"published_line_name" validate:"required"`
	DirectionRef      string `json:"direction_ref" validate:"required,oneof=INBOUND OUTBOUND"`
	OperatorRef       string `json:"operator_ref" validate:"required"`

	OriginRef       string `json:"origin_ref" validate:"required"`
	OriginName      string `json:"origin_name,omitempty"`
	DestinationRef  string `json:"destination_ref" validate:"required"`
	DestinationName string `json:"destination_name,omitempty"`

	OriginAimedDepartureTime    *time.Time `json:"origin_aimed_departure_time,omitempty"`
	DestinationAimedArrivalTime *time.Time `json:"destination_aimed_arrival_time,omitempty"`

	Longitude float64  `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude  float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Bearing   float64  `json:"bearing" validate:"gte=0,lt=360"`
	Velocity  *float64 `json:"velocity,omitempty" validate:"omitempty,gte=0"`
	Occupancy string   `json:"occupancy,omitempty" validate:"omitempty,oneof=seatsAvailable standingAvailable full"`

	BlockRef          string `json:"block_ref,omitempty"`
	VehicleJourneyRef string `json:"vehicle_journey_ref" validate:"required"`

	RecordedAtTime time.Time `json:"recorded_at_time" validate:"required"`
	ValidUntilTime time.Time `json:"valid_until_time" validate:"required"`
}

// recordValidator is the shared validator instance; validator.Validate is
// safe for concurrent use.
var recordValidator = validator.New()

// Validate checks the BODS mandatory fields and value ranges. A failure here
// means the data provider broke its contract; callers treat it as a
// programming-error signal, not a recoverable condition.
func (r *VehiclePositionRecord) Validate() error {
	if err := recordValidator.Struct(r); err != nil {
		return fmt.Errorf("vehicle position record %q: %w", r.VehicleRef, err)
	}
	return nil
}

// Stamp returns a copy of the record with RecordedAtTime set to the given
// instant and ValidUntilTime derived from it. ValidUntilTime is always
// computed as RecordedAtTime plus the validity window, never set
// independently.
func (r VehiclePositionRecord) Stamp(recordedAt time.Time) VehiclePositionRecord {
	r.RecordedAtTime = recordedAt.UTC()
	r.ValidUntilTime = r.RecordedAtTime.Add(ValidityWindow)
	return r
}

// ItemIdentifier derives the deterministic activity identifier from the
// record's operator, line and the epoch seconds of its recorded time.
func (r *VehiclePositionRecord) ItemIdentifier() string {
	return fmt.Sprintf("%s_%s_%d", r.OperatorRef, r.LineRef, r.RecordedAtTime.Unix())
}

// ServiceStatus is the service-level metadata reported by check-status.
// ServiceStartedTime is fixed at process start; it is constructed once and
// passed in explicitly rather than read from package state.
type ServiceStatus struct {
	Status             bool
	ServiceStartedTime time.Time
	DataReady          bool
}
