package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// FeedConfig controls the feed's identity and where positions come from.
type FeedConfig struct {
	ProducerRef string `yaml:"producerRef" validate:"required"`
	Provider    string `yaml:"provider" validate:"required,oneof=generator postgres gtfsrt"`
}

// DatabaseConfig contains the Postgres connection settings. Required only
// when the postgres provider or the ingest endpoints are in use.
type DatabaseConfig struct {
	URL string `yaml:"url" validate:"omitempty"`
}

// NATSConfig contains the NATS fan-out settings. Publishing is disabled
// when URL is empty.
type NATSConfig struct {
	URL     string `yaml:"url" validate:"omitempty"`
	Subject string `yaml:"subject" validate:"omitempty"`
}

// GTFSRTConfig contains the GTFS-Realtime bridge configuration. The feed
// does not carry operator or journey endpoint identities, so those are
// configured here.
type GTFSRTConfig struct {
	VehiclePositionsURL string `yaml:"vehiclePositionsURL" validate:"omitempty,url"`
	OperatorRef         string `yaml:"operatorRef"`
	OriginRef           string `yaml:"originRef"`
	OriginName          string `yaml:"originName"`
	DestinationRef      string `yaml:"destinationRef"`
	DestinationName     string `yaml:"destinationName"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server" validate:"required"`
	Feed     FeedConfig     `yaml:"feed" validate:"required"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	GTFSRT   GTFSRTConfig   `yaml:"gtfsrt"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}
