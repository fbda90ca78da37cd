package siri

// VehicleMonitoringDelivery represents the VehicleMonitoring delivery
type VehicleMonitoringDelivery struct {
	ResponseTimestamp string            `json:"ResponseTimestamp"`
	ProducerRef       string            `json:"ProducerRef,omitempty"`
	ValidUntilTime    string            `json:"ValidUntilTime,omitempty"`
	VehicleActivity   []VehicleActivity `json:"VehicleActivity"`
}

// VehicleActivity represents a single vehicle's activity
type VehicleActivity struct {
	RecordedAtTime          string                  `json:"RecordedAtTime"`
	ValidUntilTime          string                  `json:"ValidUntilTime"`
	ItemIdentifier          string                  `json:"ItemIdentifier,omitempty"`
	MonitoredVehicleJourney MonitoredVehicleJourney `json:"MonitoredVehicleJourney"`
}

// MonitoredVehicleJourney contains details about a monitored vehicle journey.
// Field order matches the BODS profile document order; the XML formatter
// relies on emitting fields in exactly this sequence.
type MonitoredVehicleJourney struct {
	LineRef                     string          `json:"LineRef"`
	DirectionRef                string          `json:"DirectionRef"`
	PublishedLineName           string          `json:"PublishedLineName"`
	OperatorRef                 string          `json:"OperatorRef"`
	OriginRef                   string          `json:"OriginRef"`
	OriginName                  string          `json:"OriginName,omitempty"`
	DestinationRef              string          `json:"DestinationRef"`
	DestinationName             string          `json:"DestinationName,omitempty"`
	OriginAimedDepartureTime    string          `json:"OriginAimedDepartureTime,omitempty"`
	DestinationAimedArrivalTime string          `json:"DestinationAimedArrivalTime,omitempty"`
	VehicleLocation             VehicleLocation `json:"VehicleLocation"`
	Bearing                     *float64        `json:"Bearing,omitempty"`
	Velocity                    *float64        `json:"Velocity,omitempty"`
	Occupancy                   string          `json:"Occupancy,omitempty"`
	BlockRef                    string          `json:"BlockRef,omitempty"`
	VehicleJourneyRef           string          `json:"VehicleJourneyRef"`
	VehicleRef                  string          `json:"VehicleRef"`
}

// VehicleLocation represents the geographical location of a vehicle
type VehicleLocation struct {
	Longitude *float64 `json:"Longitude"`
	Latitude  *float64 `json:"Latitude"`
}
