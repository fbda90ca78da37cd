package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads config.yml, applies environment overrides and validates the
// result. A missing config file is not an error; environment variables and
// defaults then carry the whole configuration.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	var cfg AppConfig
	paths := []string{"config.yml", "./config/config.yml"}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, err
		}
		break
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Feed.ProducerRef == "" {
		cfg.Feed.ProducerRef = "MIDLANDBUS"
	}
	if cfg.Feed.Provider == "" {
		cfg.Feed.Provider = "generator"
	}
	if cfg.NATS.Subject == "" {
		cfg.NATS.Subject = "positions"
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if raw := os.Getenv("PORT"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("PRODUCER_REF"); v != "" {
		cfg.Feed.ProducerRef = v
	}
	if v := os.Getenv("PROVIDER"); v != "" {
		cfg.Feed.Provider = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_SUBJECT"); v != "" {
		cfg.NATS.Subject = v
	}
	if v := os.Getenv("GTFSRT_VEHICLE_POSITIONS_URL"); v != "" {
		cfg.GTFSRT.VehiclePositionsURL = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "1" || v == "true"
	}
}
