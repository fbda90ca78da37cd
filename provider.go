package bodsfeed

import "context"

// Provider produces the candidate record set for a request. Implementations
// must be deterministic within a render cycle; no cross-call consistency is
// required. The core treats provider failures as service-unavailable at the
// endpoint layer.
type Provider interface {
	List(ctx context.Context) ([]VehiclePositionRecord, error)
}
