package siri

// StatusResponse is the top-level structure for the check-status document
type StatusResponse struct {
	Siri CheckStatusWrapper `json:"Siri"`
}

// CheckStatusWrapper wraps the CheckStatusResponse element
type CheckStatusWrapper struct {
	CheckStatusResponse CheckStatusResponse `json:"CheckStatusResponse"`
}

// CheckStatusResponse reports service liveness as required by BODS.
// ServiceStartedTime is fixed at process start and never changes for the
// lifetime of the service.
type CheckStatusResponse struct {
	Status             bool   `json:"Status"`
	ServiceStartedTime string `json:"ServiceStartedTime"`
	DataReady          bool   `json:"DataReady"`
}
