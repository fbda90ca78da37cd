package main

import (
	"context"
	"flag"
	"log"
	"time"

	bodsfeed "github.com/midlandbus/bods-feed"
	"github.com/midlandbus/bods-feed/config"
)

func main() {
	providerFlag := flag.String("provider", "", "position provider: generator|postgres|gtfsrt (overrides config)")
	seed := flag.Int64("seed", 0, "generator seed (0 seeds from the clock)")
	flag.Parse()

	bodsfeed.InitLogging()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *providerFlag != "" {
		cfg.Feed.Provider = *providerFlag
	}

	var metrics *bodsfeed.Collector
	if cfg.Metrics.Enabled {
		metrics = bodsfeed.NewCollector()
	}

	var store *bodsfeed.Store
	if cfg.Database.URL != "" {
		store, err = bodsfeed.OpenStore(cfg.Database.URL)
		if err != nil {
			log.Fatalf("database error: %v", err)
		}
		if err := store.Ping(context.Background()); err != nil {
			log.Fatalf("database unreachable: %v", err)
		}
		log.Printf("position store connected")
	}

	var publisher *bodsfeed.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = bodsfeed.NewPublisher(cfg.NATS.URL, cfg.NATS.Subject, metrics)
		if err != nil {
			log.Fatalf("nats error: %v", err)
		}
		log.Printf("nats connected to %s", cfg.NATS.URL)
	}

	var provider bodsfeed.Provider
	switch cfg.Feed.Provider {
	case "postgres":
		if store == nil {
			log.Fatalf("postgres provider requires database.url")
		}
		provider = store
	case "gtfsrt":
		if cfg.GTFSRT.VehiclePositionsURL == "" {
			log.Fatalf("gtfsrt provider requires gtfsrt.vehiclePositionsURL")
		}
		if cfg.GTFSRT.OperatorRef == "" || cfg.GTFSRT.OriginRef == "" || cfg.GTFSRT.DestinationRef == "" {
			log.Fatalf("gtfsrt provider requires gtfsrt.operatorRef, originRef and destinationRef")
		}
		provider = bodsfeed.NewFeedBridge(cfg.GTFSRT.VehiclePositionsURL, bodsfeed.FeedBridgeDefaults{
			OperatorRef:     cfg.GTFSRT.OperatorRef,
			OriginRef:       cfg.GTFSRT.OriginRef,
			OriginName:      cfg.GTFSRT.OriginName,
			DestinationRef:  cfg.GTFSRT.DestinationRef,
			DestinationName: cfg.GTFSRT.DestinationName,
		})
	default:
		provider = bodsfeed.NewGenerator(*seed)
	}
	log.Printf("using %s position provider", cfg.Feed.Provider)

	svc := bodsfeed.NewService(cfg, provider, store, publisher, metrics, time.Now().UTC())
	svc.Start()
	svc.HandleGracefulShutdown()
}
