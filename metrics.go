package bodsfeed

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus metrics on a private registry so
// the /metrics endpoint exposes only what this service registers.
type Collector struct {
	reg *prometheus.Registry

	Requests *prometheus.CounterVec // endpoint, status labels

	VehiclesRendered prometheus.Counter
	RenderDuration   prometheus.Histogram

	PositionsIngested prometheus.Counter
	PositionsDeleted  prometheus.Counter

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bodsfeed_requests_total",
			Help: "Total HTTP requests served, by endpoint and status code.",
		}, []string{"endpoint", "status"}),
		VehiclesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bodsfeed_vehicles_rendered_total",
			Help: "Total vehicle activities rendered into responses.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bodsfeed_render_duration_seconds",
			Help:    "Duration of building and serializing a vehicle monitoring response.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		PositionsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bodsfeed_positions_ingested_total",
			Help: "Total vehicle positions accepted via the ingest endpoint.",
		}),
		PositionsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bodsfeed_positions_deleted_total",
			Help: "Total stored vehicle positions removed via the cleanup endpoint.",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bodsfeed_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bodsfeed_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bodsfeed_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		c.Requests,
		c.VehiclesRendered, c.RenderDuration,
		c.PositionsIngested, c.PositionsDeleted,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected,
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

func (c *Collector) RequestInc(endpoint string, status int) {
	if c == nil {
		return
	}
	c.Requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func (c *Collector) VehiclesRenderedAdd(n int) {
	if c == nil {
		return
	}
	c.VehiclesRendered.Add(float64(n))
}

func (c *Collector) RenderObserve(d time.Duration) {
	if c == nil {
		return
	}
	c.RenderDuration.Observe(d.Seconds())
}

func (c *Collector) PositionsIngestedInc() {
	if c == nil {
		return
	}
	c.PositionsIngested.Inc()
}

func (c *Collector) PositionsDeletedAdd(n int64) {
	if c == nil {
		return
	}
	c.PositionsDeleted.Add(float64(n))
}

func (c *Collector) NATSPublishedInc() {
	if c == nil {
		return
	}
	c.NATSPublished.Inc()
}

func (c *Collector) NATSPublishErrInc() {
	if c == nil {
		return
	}
	c.NATSPublishErrs.Inc()
}

func (c *Collector) NATSSetConnected(connected bool) {
	if c == nil {
		return
	}
	if connected {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}
