package bodsfeed

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// FeedBridgeDefaults fills the identity fields a GTFS-RT vehicle positions
// feed does not carry. The feed knows routes and coordinates; who operates
// the vehicles and where the journeys start and end has to come from the
// deployment.
type FeedBridgeDefaults struct {
	OperatorRef     string
	OriginRef       string
	OriginName      string
	DestinationRef  string
	DestinationName string
}

// FeedBridge is a provider that reads a GTFS-RT VehiclePositions feed and
// maps its entities into position records.
type FeedBridge struct {
	url        string
	defaults   FeedBridgeDefaults
	httpClient *http.Client
}

func NewFeedBridge(url string, defaults FeedBridgeDefaults) *FeedBridge {
	return &FeedBridge{
		url:        url,
		defaults:   defaults,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (b *FeedBridge) List(ctx context.Context) ([]VehiclePositionRecord, error) {
	fm, err := b.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var records []VehiclePositionRecord
	for _, e := range fm.Entity {
		v := e.Vehicle
		if v == nil || v.Position == nil {
			continue
		}
		trip := v.Trip
		if trip == nil || trip.RouteId == nil {
			continue
		}

		r := VehiclePositionRecord{
			LineRef:           *trip.RouteId,
			PublishedLineName: *trip.RouteId,
			DirectionRef:      directionFromGTFS(trip.DirectionId),
			OperatorRef:       b.defaults.OperatorRef,
			OriginRef:         b.defaults.OriginRef,
			OriginName:        b.defaults.OriginName,
			DestinationRef:    b.defaults.DestinationRef,
			DestinationName:   b.defaults.DestinationName,
			Longitude:         float64(*v.Position.Longitude),
			Latitude:          float64(*v.Position.Latitude),
			Occupancy:         occupancyFromGTFS(v.OccupancyStatus),
		}
		if v.Position.Bearing != nil {
			r.Bearing = float64(*v.Position.Bearing)
		}
		if v.Position.Speed != nil {
			speed := float64(*v.Position.Speed)
			r.Velocity = &speed
		}
		if v.Vehicle != nil && v.Vehicle.Id != nil {
			r.VehicleRef = *v.Vehicle.Id
		}
		if r.VehicleRef == "" && e.Id != nil {
			r.VehicleRef = *e.Id
		}
		if trip.TripId != nil {
			r.VehicleJourneyRef = *trip.TripId
			r.BlockRef = *trip.TripId
		}

		recordedAt := now
		if v.Timestamp != nil {
			recordedAt = time.Unix(int64(*v.Timestamp), 0).UTC()
		}
		rec := r.Stamp(recordedAt)

		// An incomplete entity must not poison the whole feed: a record
		// the bridge cannot complete is dropped, not passed downstream.
		if err := rec.Validate(); err != nil {
			log.Printf("skipping feed entity %s: %v", entityID(e), err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func entityID(e *gtfsrtpb.FeedEntity) string {
	if e.Id != nil {
		return *e.Id
	}
	return "<no id>"
}

func (b *FeedBridge) fetchFeed(ctx context.Context) (*gtfsrtpb.FeedMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", b.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, b.url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	fm := &gtfsrtpb.FeedMessage{}
	if err := proto.Unmarshal(body, fm); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return fm, nil
}

// GTFS direction_id 0 is conventionally the outbound half of a route.
func directionFromGTFS(dir *uint32) string {
	if dir != nil && *dir == 1 {
		return DirectionInbound
	}
	return DirectionOutbound
}

func occupancyFromGTFS(status *gtfsrtpb.VehiclePosition_OccupancyStatus) string {
	if status == nil {
		return ""
	}
	switch *status {
	case gtfsrtpb.VehiclePosition_EMPTY,
		gtfsrtpb.VehiclePosition_MANY_SEATS_AVAILABLE,
		gtfsrtpb.VehiclePosition_FEW_SEATS_AVAILABLE:
		return OccupancySeatsAvailable
	case gtfsrtpb.VehiclePosition_STANDING_ROOM_ONLY,
		gtfsrtpb.VehiclePosition_CRUSHED_STANDING_ROOM_ONLY:
		return OccupancyStandingAvailable
	case gtfsrtpb.VehiclePosition_FULL,
		gtfsrtpb.VehiclePosition_NOT_ACCEPTING_PASSENGERS:
		return OccupancyFull
	}
	return ""
}
