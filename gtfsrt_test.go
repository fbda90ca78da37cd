package bodsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

func strp(s string) *string   { return &s }
func u32p(v uint32) *uint32   { return &v }
func u64p(v uint64) *uint64   { return &v }
func f32p(v float32) *float32 { return &v }

func testFeedMessage() *gtfsrtpb.FeedMessage {
	occupancy := gtfsrtpb.VehiclePosition_FULL
	return &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: strp("2.0"),
		},
		Entity: []*gtfsrtpb.FeedEntity{
			{
				Id: strp("entity-1"),
				Vehicle: &gtfsrtpb.VehiclePosition{
					Trip: &gtfsrtpb.TripDescriptor{
						TripId:      strp("trip-100"),
						RouteId:     strp("45"),
						DirectionId: u32p(1),
					},
					Vehicle: &gtfsrtpb.VehicleDescriptor{Id: strp("BUS_45_01")},
					Position: &gtfsrtpb.Position{
						Latitude:  f32p(52.5),
						Longitude: f32p(-1.9),
						Bearing:   f32p(90),
						Speed:     f32p(12),
					},
					Timestamp:       u64p(1705314610),
					OccupancyStatus: &occupancy,
				},
			},
			{
				// No position, must be skipped.
				Id:      strp("entity-2"),
				Vehicle: &gtfsrtpb.VehiclePosition{},
			},
		},
	}
}

func TestFeedBridgeList(t *testing.T) {
	payload, err := proto.Marshal(testFeedMessage())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	bridge := NewFeedBridge(srv.URL, FeedBridgeDefaults{
		OperatorRef:     "MIDL",
		OriginRef:       "430003002",
		OriginName:      "City Centre",
		DestinationRef:  "430008001",
		DestinationName: "Solihull Interchange",
	})
	records, err := bridge.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one usable record, got %d", len(records))
	}

	r := records[0]
	if r.VehicleRef != "BUS_45_01" {
		t.Errorf("unexpected vehicle ref %q", r.VehicleRef)
	}
	if r.LineRef != "45" {
		t.Errorf("unexpected line ref %q", r.LineRef)
	}
	if r.DirectionRef != DirectionInbound {
		t.Errorf("direction_id 1 should map to INBOUND, got %q", r.DirectionRef)
	}
	if r.OperatorRef != "MIDL" || r.OriginRef != "430003002" {
		t.Error("configured defaults should fill identity fields")
	}
	if r.Occupancy != OccupancyFull {
		t.Errorf("FULL should map to full, got %q", r.Occupancy)
	}
	if r.Velocity == nil || *r.Velocity != 12 {
		t.Errorf("speed not carried: %v", r.Velocity)
	}
	if r.RecordedAtTime.Unix() != 1705314610 {
		t.Errorf("feed timestamp should drive RecordedAtTime, got %v", r.RecordedAtTime)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("bridged record should validate: %v", err)
	}
}

func TestFeedBridgeListDropsIncompleteEntities(t *testing.T) {
	fm := testFeedMessage()
	// Trip carries a route but no trip id, so no journey ref can be derived.
	fm.Entity = append(fm.Entity, &gtfsrtpb.FeedEntity{
		Id: strp("entity-3"),
		Vehicle: &gtfsrtpb.VehiclePosition{
			Trip: &gtfsrtpb.TripDescriptor{RouteId: strp("47")},
			Position: &gtfsrtpb.Position{
				Latitude:  f32p(52.4),
				Longitude: f32p(-1.8),
			},
		},
	})
	payload, err := proto.Marshal(fm)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	bridge := NewFeedBridge(srv.URL, FeedBridgeDefaults{
		OperatorRef:     "MIDL",
		OriginRef:       "430003002",
		OriginName:      "City Centre",
		DestinationRef:  "430008001",
		DestinationName: "Solihull Interchange",
	})
	records, err := bridge.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("incomplete entity should be dropped, got %d records", len(records))
	}
	if records[0].VehicleRef != "BUS_45_01" {
		t.Errorf("wrong record survived: %q", records[0].VehicleRef)
	}

	// The surviving set must build cleanly.
	if _, err := BuildVehicleMonitoring(records, time.Now().UTC(), "MIDLANDBUS"); err != nil {
		t.Fatalf("feed with dropped entity should still build: %v", err)
	}
}

func TestFeedBridgeListUnconfiguredDefaults(t *testing.T) {
	payload, err := proto.Marshal(testFeedMessage())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	bridge := NewFeedBridge(srv.URL, FeedBridgeDefaults{})
	records, err := bridge.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records missing identity defaults must be dropped, got %d", len(records))
	}
}

func TestFeedBridgeListServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	bridge := NewFeedBridge(srv.URL, FeedBridgeDefaults{})
	if _, err := bridge.List(context.Background()); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}

func TestDirectionFromGTFS(t *testing.T) {
	if got := directionFromGTFS(nil); got != DirectionOutbound {
		t.Errorf("missing direction defaults to OUTBOUND, got %q", got)
	}
	zero, one := uint32(0), uint32(1)
	if got := directionFromGTFS(&zero); got != DirectionOutbound {
		t.Errorf("0 should map to OUTBOUND, got %q", got)
	}
	if got := directionFromGTFS(&one); got != DirectionInbound {
		t.Errorf("1 should map to INBOUND, got %q", got)
	}
}

func TestOccupancyFromGTFS(t *testing.T) {
	tests := []struct {
		name     string
		input    gtfsrtpb.VehiclePosition_OccupancyStatus
		expected string
	}{
		{name: "empty", input: gtfsrtpb.VehiclePosition_EMPTY, expected: OccupancySeatsAvailable},
		{name: "many seats", input: gtfsrtpb.VehiclePosition_MANY_SEATS_AVAILABLE, expected: OccupancySeatsAvailable},
		{name: "standing room", input: gtfsrtpb.VehiclePosition_STANDING_ROOM_ONLY, expected: OccupancyStandingAvailable},
		{name: "crushed standing", input: gtfsrtpb.VehiclePosition_CRUSHED_STANDING_ROOM_ONLY, expected: OccupancyStandingAvailable},
		{name: "full", input: gtfsrtpb.VehiclePosition_FULL, expected: OccupancyFull},
		{name: "not accepting", input: gtfsrtpb.VehiclePosition_NOT_ACCEPTING_PASSENGERS, expected: OccupancyFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := tt.input
			if got := occupancyFromGTFS(&status); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}

	if got := occupancyFromGTFS(nil); got != "" {
		t.Errorf("missing status should map to absent, got %q", got)
	}
}
