package bodsfeed

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// route is the static timetable data a generated vehicle is assigned to.
type route struct {
	lineRef           string
	publishedLineName string
	directionRef      string
	operatorRef       string
	originRef         string
	originName        string
	destinationRef    string
	destinationName   string
	originDeparture   string // HH:MM, today
	destinationArrive string // HH:MM, today
}

var sampleRoutes = []route{
	{
		lineRef:           "1",
		publishedLineName: "1 - Birmingham to Dudley",
		directionRef:      DirectionOutbound,
		operatorRef:       "MIDL",
		originRef:         "430003002",
		originName:        "Birmingham Moor Street",
		destinationRef:    "430008001",
		destinationName:   "Dudley Bus Station",
		originDeparture:   "08:00",
		destinationArrive: "09:30",
	},
	{
		lineRef:           "45",
		publishedLineName: "45 - Walsall to Birmingham",
		directionRef:      DirectionInbound,
		operatorRef:       "MIDL",
		originRef:         "430007001",
		originName:        "Walsall Bus Station",
		destinationRef:    "430003002",
		destinationName:   "Birmingham Moor Street",
		originDeparture:   "07:30",
		destinationArrive: "09:00",
	},
	{
		lineRef:           "47",
		publishedLineName: "47 - West Bromwich to Birmingham",
		directionRef:      DirectionOutbound,
		operatorRef:       "MIDL",
		originRef:         "430009001",
		originName:        "West Bromwich Bus Station",
		destinationRef:    "430003002",
		destinationName:   "Birmingham Moor Street",
		originDeparture:   "08:15",
		destinationArrive: "09:45",
	},
}

// Positions along the West Midlands corridor the generated vehicles drift
// around.
var samplePositions = []struct {
	lat, lon, bearing float64
}{
	{52.4786, -1.8945, 45.0},
	{52.4855, -1.9020, 90.0},
	{52.4920, -1.9180, 135.0},
	{52.5010, -1.9350, 180.0},
	{52.5100, -1.9520, 225.0},
	{52.5180, -1.9700, 270.0},
	{52.5250, -1.9880, 315.0},
}

const generatorFleetSize = 10

// Generator is the synthetic data provider used for BODS compliance testing.
// A fixed fleet is assigned routes and base positions at construction;
// each List call stamps fresh positions with slight simulated movement.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	fleet []generatedVehicle
}

type generatedVehicle struct {
	vehicleRef string
	blockRef   string
	route      route
	lat        float64
	lon        float64
	bearing    float64
}

// NewGenerator builds a generator with a fleet of ten vehicles spread over
// the sample routes. A zero seed draws one from the clock; any other value
// gives a reproducible fleet.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	g := &Generator{rng: rng}
	for i := 0; i < generatorFleetSize; i++ {
		rt := sampleRoutes[rng.Intn(len(sampleRoutes))]
		pos := samplePositions[rng.Intn(len(samplePositions))]
		g.fleet = append(g.fleet, generatedVehicle{
			vehicleRef: fmt.Sprintf("MIDL_%d", 1000+i),
			blockRef:   fmt.Sprintf("BLOCK_%d", i%3+1),
			route:      rt,
			lat:        pos.lat,
			lon:        pos.lon,
			bearing:    pos.bearing,
		})
	}
	return g
}

// List generates the current snapshot for every vehicle in the fleet.
func (g *Generator) List(ctx context.Context) ([]VehiclePositionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC()
	records := make([]VehiclePositionRecord, 0, len(g.fleet))
	for i := range g.fleet {
		v := &g.fleet[i]
		v.lat += g.rng.Float64()*0.002 - 0.001
		v.lon += g.rng.Float64()*0.002 - 0.001
		v.bearing = wrapBearing(v.bearing + g.rng.Float64()*20 - 10)

		velocity := g.rng.Float64() * 25 // 0-25 m/s
		rec := VehiclePositionRecord{
			VehicleRef:        v.vehicleRef,
			LineRef:           v.route.lineRef,
			PublishedLineName: v.route.publishedLineName,
			DirectionRef:      v.route.directionRef,
			OperatorRef:       v.route.operatorRef,
			OriginRef:         v.route.originRef,
			OriginName:        v.route.originName,
			DestinationRef:    v.route.destinationRef,
			DestinationName:   v.route.destinationName,
			Longitude:         v.lon,
			Latitude:          v.lat,
			Bearing:           v.bearing,
			Velocity:          &velocity,
			Occupancy:         g.randomOccupancy(),
			BlockRef:          v.blockRef,
			VehicleJourneyRef: fmt.Sprintf("JOURNEY_%s_%s", v.vehicleRef, now.Format("20060102")),
		}
		if dep := clockTimeToday(v.route.originDeparture, now); !dep.IsZero() {
			rec.OriginAimedDepartureTime = &dep
		}
		if arr := clockTimeToday(v.route.destinationArrive, now); !arr.IsZero() {
			rec.DestinationAimedArrivalTime = &arr
		}
		records = append(records, rec.Stamp(now))
	}
	return records, nil
}

// randomOccupancy picks an occupancy value, or none: absent occupancy
// exercises the optional-field omission path downstream.
func (g *Generator) randomOccupancy() string {
	switch g.rng.Intn(4) {
	case 0:
		return OccupancySeatsAvailable
	case 1:
		return OccupancyStandingAvailable
	case 2:
		return OccupancyFull
	default:
		return ""
	}
}

func wrapBearing(b float64) float64 {
	for b < 0 {
		b += 360
	}
	for b >= 360 {
		b -= 360
	}
	return b
}

// clockTimeToday resolves an HH:MM timetable entry onto today's date in UTC.
func clockTimeToday(hhmm string, now time.Time) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
