package bodsfeed

// Criteria holds the optional query constraints for vehicle monitoring.
// Empty string fields impose no constraint; MaxVehicles values of zero or
// below mean "no limit".
type Criteria struct {
	LineRef     string
	OperatorRef string
	VehicleRef  string
	MaxVehicles int
}

// Apply narrows records to those satisfying every non-empty predicate,
// preserving input order. Matching is exact and case-sensitive. The input
// slice is never mutated; no match yields an empty result, not an error.
func (c Criteria) Apply(records []VehiclePositionRecord) []VehiclePositionRecord {
	out := make([]VehiclePositionRecord, 0, len(records))
	for _, r := range records {
		if c.LineRef != "" && r.LineRef != c.LineRef {
			continue
		}
		if c.OperatorRef != "" && r.OperatorRef != c.OperatorRef {
			continue
		}
		if c.VehicleRef != "" && r.VehicleRef != c.VehicleRef {
			continue
		}
		out = append(out, r)
		if c.MaxVehicles > 0 && len(out) == c.MaxVehicles {
			break
		}
	}
	return out
}
