package formatter

import (
	"strconv"
	"strings"

	"github.com/midlandbus/bods-feed/siri"
)

const (
	siriNamespace  = "http://www.siri.org.uk/siri"
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = "http://www.siri.org.uk/siri http://www.siri.org.uk/schema/2.0/xsd/siri.xsd"
)

// BuildVehicleMonitoringXML serializes a SIRI-VM response to XML.
// The main feed document declares both the xsi namespace and the
// xsi:schemaLocation attribute pointing at the SIRI 2.0 schema.
func BuildVehicleMonitoringXML(res *siri.Response) []byte {
	var b strings.Builder
	b.WriteString("<Siri version=\"2.0\" xmlns=\"")
	b.WriteString(siriNamespace)
	b.WriteString("\" xmlns:xsi=\"")
	b.WriteString(xsiNamespace)
	b.WriteString("\" xsi:schemaLocation=\"")
	b.WriteString(schemaLocation)
	b.WriteString("\">")
	sd := res.Siri.ServiceDelivery
	b.WriteString("<ServiceDelivery>")
	if sd.ResponseTimestamp != "" {
		b.WriteString("<ResponseTimestamp>")
		b.WriteString(xmlEscape(sd.ResponseTimestamp))
		b.WriteString("</ResponseTimestamp>")
	}
	if sd.ProducerRef != "" {
		b.WriteString("<ProducerRef>")
		b.WriteString(xmlEscape(sd.ProducerRef))
		b.WriteString("</ProducerRef>")
	}
	for _, vmd := range sd.VehicleMonitoringDelivery {
		writeVehicleMonitoringXML(&b, vmd)
	}
	b.WriteString("</ServiceDelivery>")
	b.WriteString("</Siri>")
	return []byte(b.String())
}

// BuildCheckStatusXML serializes a check-status response to XML.
// The check-status document declares the xsi namespace but carries no
// schemaLocation.
func BuildCheckStatusXML(res *siri.StatusResponse) []byte {
	var b strings.Builder
	b.WriteString("<Siri version=\"2.0\" xmlns=\"")
	b.WriteString(siriNamespace)
	b.WriteString("\" xmlns:xsi=\"")
	b.WriteString(xsiNamespace)
	b.WriteString("\">")
	cs := res.Siri.CheckStatusResponse
	b.WriteString("<CheckStatusResponse>")
	b.WriteString("<Status>")
	writeBool(&b, cs.Status)
	b.WriteString("</Status>")
	if cs.ServiceStartedTime != "" {
		b.WriteString("<ServiceStartedTime>")
		b.WriteString(xmlEscape(cs.ServiceStartedTime))
		b.WriteString("</ServiceStartedTime>")
	}
	b.WriteString("<DataReady>")
	writeBool(&b, cs.DataReady)
	b.WriteString("</DataReady>")
	b.WriteString("</CheckStatusResponse>")
	b.WriteString("</Siri>")
	return []byte(b.String())
}

// BuildErrorXML serializes a Siri error document with a single Description.
// Used for malformed-query rejections and internal failures.
func BuildErrorXML(msg string) []byte {
	var b strings.Builder
	b.WriteString("<Siri version=\"2.0\" xmlns=\"")
	b.WriteString(siriNamespace)
	b.WriteString("\">")
	b.WriteString("<ServiceDelivery>")
	b.WriteString("<ErrorCondition><Description>")
	b.WriteString(xmlEscape(msg))
	b.WriteString("</Description></ErrorCondition>")
	b.WriteString("</ServiceDelivery>")
	b.WriteString("</Siri>")
	return []byte(b.String())
}

func writeVehicleMonitoringXML(b *strings.Builder, vmd siri.VehicleMonitoringDelivery) {
	b.WriteString("<VehicleMonitoringDelivery>")
	if vmd.ResponseTimestamp != "" {
		b.WriteString("<ResponseTimestamp>")
		b.WriteString(xmlEscape(vmd.ResponseTimestamp))
		b.WriteString("</ResponseTimestamp>")
	}
	if vmd.ProducerRef != "" {
		b.WriteString("<ProducerRef>")
		b.WriteString(xmlEscape(vmd.ProducerRef))
		b.WriteString("</ProducerRef>")
	}
	if vmd.ValidUntilTime != "" {
		b.WriteString("<ValidUntilTime>")
		b.WriteString(xmlEscape(vmd.ValidUntilTime))
		b.WriteString("</ValidUntilTime>")
	}
	for _, va := range vmd.VehicleActivity {
		b.WriteString("<VehicleActivity>")
		if va.RecordedAtTime != "" {
			b.WriteString("<RecordedAtTime>")
			b.WriteString(xmlEscape(va.RecordedAtTime))
			b.WriteString("</RecordedAtTime>")
		}
		if va.ValidUntilTime != "" {
			b.WriteString("<ValidUntilTime>")
			b.WriteString(xmlEscape(va.ValidUntilTime))
			b.WriteString("</ValidUntilTime>")
		}
		if va.ItemIdentifier != "" {
			b.WriteString("<ItemIdentifier>")
			b.WriteString(xmlEscape(va.ItemIdentifier))
			b.WriteString("</ItemIdentifier>")
		}
		writeMVJXML(b, va.MonitoredVehicleJourney)
		b.WriteString("</VehicleActivity>")
	}
	b.WriteString("</VehicleMonitoringDelivery>")
}

// writeMVJXML emits the MonitoredVehicleJourney fields in BODS document order.
// Optional fields absent on the record are omitted entirely, never emitted
// empty; that is a compliance requirement.
func writeMVJXML(b *strings.Builder, mvj siri.MonitoredVehicleJourney) {
	b.WriteString("<MonitoredVehicleJourney>")
	if mvj.LineRef != "" {
		b.WriteString("<LineRef>")
		b.WriteString(xmlEscape(mvj.LineRef))
		b.WriteString("</LineRef>")
	}
	if mvj.DirectionRef != "" {
		b.WriteString("<DirectionRef>")
		b.WriteString(xmlEscape(mvj.DirectionRef))
		b.WriteString("</DirectionRef>")
	}
	if mvj.PublishedLineName != "" {
		b.WriteString("<PublishedLineName>")
		b.WriteString(xmlEscape(mvj.PublishedLineName))
		b.WriteString("</PublishedLineName>")
	}
	if mvj.OperatorRef != "" {
		b.WriteString("<OperatorRef>")
		b.WriteString(xmlEscape(mvj.OperatorRef))
		b.WriteString("</OperatorRef>")
	}
	if mvj.OriginRef != "" {
		b.WriteString("<OriginRef>")
		b.WriteString(xmlEscape(mvj.OriginRef))
		b.WriteString("</OriginRef>")
	}
	if mvj.OriginName != "" {
		b.WriteString("<OriginName>")
		b.WriteString(xmlEscape(mvj.OriginName))
		b.WriteString("</OriginName>")
	}
	if mvj.DestinationRef != "" {
		b.WriteString("<DestinationRef>")
		b.WriteString(xmlEscape(mvj.DestinationRef))
		b.WriteString("</DestinationRef>")
	}
	if mvj.DestinationName != "" {
		b.WriteString("<DestinationName>")
		b.WriteString(xmlEscape(mvj.DestinationName))
		b.WriteString("</DestinationName>")
	}
	if mvj.OriginAimedDepartureTime != "" {
		b.WriteString("<OriginAimedDepartureTime>")
		b.WriteString(xmlEscape(mvj.OriginAimedDepartureTime))
		b.WriteString("</OriginAimedDepartureTime>")
	}
	if mvj.DestinationAimedArrivalTime != "" {
		b.WriteString("<DestinationAimedArrivalTime>")
		b.WriteString(xmlEscape(mvj.DestinationAimedArrivalTime))
		b.WriteString("</DestinationAimedArrivalTime>")
	}
	if mvj.VehicleLocation.Longitude != nil || mvj.VehicleLocation.Latitude != nil {
		b.WriteString("<VehicleLocation>")
		if mvj.VehicleLocation.Longitude != nil {
			b.WriteString("<Longitude>")
			b.WriteString(formatFloat(*mvj.VehicleLocation.Longitude))
			b.WriteString("</Longitude>")
		}
		if mvj.VehicleLocation.Latitude != nil {
			b.WriteString("<Latitude>")
			b.WriteString(formatFloat(*mvj.VehicleLocation.Latitude))
			b.WriteString("</Latitude>")
		}
		b.WriteString("</VehicleLocation>")
	}
	if mvj.Bearing != nil {
		b.WriteString("<Bearing>")
		b.WriteString(formatFloat(*mvj.Bearing))
		b.WriteString("</Bearing>")
	}
	if mvj.Velocity != nil {
		b.WriteString("<Velocity>")
		b.WriteString(formatFloat(*mvj.Velocity))
		b.WriteString("</Velocity>")
	}
	if mvj.Occupancy != "" {
		b.WriteString("<Occupancy>")
		b.WriteString(xmlEscape(mvj.Occupancy))
		b.WriteString("</Occupancy>")
	}
	if mvj.BlockRef != "" {
		b.WriteString("<BlockRef>")
		b.WriteString(xmlEscape(mvj.BlockRef))
		b.WriteString("</BlockRef>")
	}
	if mvj.VehicleJourneyRef != "" {
		b.WriteString("<VehicleJourneyRef>")
		b.WriteString(xmlEscape(mvj.VehicleJourneyRef))
		b.WriteString("</VehicleJourneyRef>")
	}
	if mvj.VehicleRef != "" {
		b.WriteString("<VehicleRef>")
		b.WriteString(xmlEscape(mvj.VehicleRef))
		b.WriteString("</VehicleRef>")
	}
	b.WriteString("</MonitoredVehicleJourney>")
}

// formatFloat renders a float as plain decimal with the shortest exact
// representation. Never scientific notation, never implicit rounding.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeBool(b *strings.Builder, v bool) {
	if v {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
}

func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
