package siri

// Response is the top-level SIRI response structure
type Response struct {
	Siri ServiceDeliveryWrapper `json:"Siri"`
}

// ServiceDeliveryWrapper wraps the ServiceDelivery element
type ServiceDeliveryWrapper struct {
	ServiceDelivery ServiceDelivery `json:"ServiceDelivery"`
}

// ServiceDelivery carries the response metadata and the VM delivery
type ServiceDelivery struct {
	ResponseTimestamp         string                      `json:"ResponseTimestamp"`
	ProducerRef               string                      `json:"ProducerRef,omitempty"`
	VehicleMonitoringDelivery []VehicleMonitoringDelivery `json:"VehicleMonitoringDelivery"`
}
