package bodsfeed

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher fans ingested positions out over NATS so downstream consumers
// (dashboards, archivers) see them without polling the feed.
type Publisher struct {
	nc      *nats.Conn
	subject string
	metrics *Collector
}

// NewPublisher connects to the NATS server at url. Positions are published
// under "<subject>.<operator>.<vehicle>".
func NewPublisher(url, subject string, m *Collector) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("bods-feed"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &Publisher{nc: nc, subject: subject, metrics: m}, nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

type positionMessage struct {
	VehicleRef   string    `json:"vehicleRef"`
	LineRef      string    `json:"lineRef"`
	OperatorRef  string    `json:"operatorRef"`
	DirectionRef string    `json:"directionRef"`
	RecordedAt   time.Time `json:"recordedAt"`
	Longitude    float64   `json:"longitude"`
	Latitude     float64   `json:"latitude"`
	Bearing      float64   `json:"bearing"`
	Velocity     *float64  `json:"velocity,omitempty"`
	Occupancy    string    `json:"occupancy,omitempty"`
}

// PublishPosition pushes one stamped record to NATS.
func (p *Publisher) PublishPosition(r VehiclePositionRecord) error {
	subject := fmt.Sprintf("%s.%s.%s", p.subject, subjectToken(r.OperatorRef), subjectToken(r.VehicleRef))
	msg := positionMessage{
		VehicleRef:   r.VehicleRef,
		LineRef:      r.LineRef,
		OperatorRef:  r.OperatorRef,
		DirectionRef: r.DirectionRef,
		RecordedAt:   r.RecordedAtTime,
		Longitude:    r.Longitude,
		Latitude:     r.Latitude,
		Bearing:      r.Bearing,
		Velocity:     r.Velocity,
		Occupancy:    r.Occupancy,
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
