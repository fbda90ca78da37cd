package bodsfeed

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/midlandbus/bods-feed/config"
)

// Service wires the feed endpoints to a position provider and the optional
// store, publisher and metrics. Store and Publisher may be nil; the
// endpoints that need them answer 503 when they are absent.
type Service struct {
	cfg       config.AppConfig
	provider  Provider
	store     *Store
	publisher *Publisher
	metrics   *Collector
	startedAt time.Time

	server *http.Server
}

func NewService(cfg config.AppConfig, provider Provider, store *Store, publisher *Publisher, metrics *Collector, startedAt time.Time) *Service {
	return &Service{
		cfg:       cfg,
		provider:  provider,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		startedAt: startedAt.UTC(),
	}
}

func (s *Service) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/check-status", s.handleCheckStatus)
	mux.HandleFunc("/check-status.json", s.handleCheckStatusJSON)
	mux.HandleFunc("/vehicle-monitoring", s.handleVehicleMonitoring)
	mux.HandleFunc("/vehicle-monitoring.json", s.handleVehicleMonitoringJSON)
	mux.HandleFunc("/vehicle-position", s.handleIngest)
	mux.HandleFunc("/vehicle-positions", s.handleDelete)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

func (s *Service) HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		} else {
			log.Printf("server shut down successfully")
		}
	}
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("store close error: %v", err)
		}
	}
}
