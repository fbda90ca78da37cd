package bodsfeed

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

// parseVehicleMonitoringQuery reads the BODS query parameters into filter
// criteria. Absent parameters leave their criterion unset; a malformed
// MaximumNumberOfVehicles is rejected rather than ignored.
func parseVehicleMonitoringQuery(params url.Values) (Criteria, error) {
	c := Criteria{
		LineRef:     strings.TrimSpace(params.Get("LineRef")),
		OperatorRef: strings.TrimSpace(params.Get("OperatorRef")),
		VehicleRef:  strings.TrimSpace(params.Get("VehicleRef")),
	}

	raw := strings.TrimSpace(params.Get("MaximumNumberOfVehicles"))
	if raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Criteria{}, &QueryError{Msg: "MaximumNumberOfVehicles must be an integer."}
		}
		c.MaxVehicles = v
	}
	return c, nil
}

// parseDeleteQuery reads the cleanup parameters. days_old and
// before_timestamp are both optional; before_timestamp takes a SIRI-style or
// RFC 3339 timestamp and wins when both are set.
func parseDeleteQuery(params url.Values) (DeleteFilter, error) {
	f := DeleteFilter{
		VehicleRef:  strings.TrimSpace(params.Get("vehicle_ref")),
		OperatorRef: strings.TrimSpace(params.Get("operator_ref")),
	}

	if raw := strings.TrimSpace(params.Get("days_old")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return DeleteFilter{}, &QueryError{Msg: "days_old must be a non-negative integer."}
		}
		f.DaysOld = v
	}
	if raw := strings.TrimSpace(params.Get("before_timestamp")); raw != "" {
		t, err := parseFlexibleTime(raw)
		if err != nil {
			return DeleteFilter{}, &QueryError{Msg: "before_timestamp must be an RFC 3339 timestamp."}
		}
		f.Before = t
	}
	return f, nil
}

func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(siriTimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
