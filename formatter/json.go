package formatter

import (
	"encoding/json"

	"github.com/midlandbus/bods-feed/siri"
)

// BuildVehicleMonitoringJSON serializes a SIRI-VM response to JSON
func BuildVehicleMonitoringJSON(res *siri.Response) []byte {
	b, _ := json.Marshal(res)
	return b
}

// BuildCheckStatusJSON serializes a check-status response to JSON
func BuildCheckStatusJSON(res *siri.StatusResponse) []byte {
	b, _ := json.Marshal(res)
	return b
}
