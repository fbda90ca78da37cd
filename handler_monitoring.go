package bodsfeed

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/midlandbus/bods-feed/formatter"
)

const serviceVersion = "1.0.0"

func (s *Service) handleVehicleMonitoring(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml")

	criteria, err := parseVehicleMonitoringQuery(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write(formatter.BuildErrorXML(err.Error()))
		s.metrics.RequestInc("vehicle-monitoring", http.StatusBadRequest)
		return
	}

	records, err := s.provider.List(r.Context())
	if err != nil {
		log.Printf("provider error: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write(formatter.BuildErrorXML("Vehicle position data is currently unavailable."))
		s.metrics.RequestInc("vehicle-monitoring", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	matched := criteria.Apply(records)
	res, err := BuildVehicleMonitoring(matched, time.Now().UTC(), s.cfg.Feed.ProducerRef)
	if err != nil {
		log.Printf("build vehicle monitoring: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(formatter.BuildErrorXML("Internal error building response."))
		s.metrics.RequestInc("vehicle-monitoring", http.StatusInternalServerError)
		return
	}
	buf := formatter.BuildVehicleMonitoringXML(res)
	s.metrics.RenderObserve(time.Since(start))
	s.metrics.VehiclesRenderedAdd(len(matched))
	s.metrics.RequestInc("vehicle-monitoring", http.StatusOK)
	_, _ = w.Write(buf)
}

func (s *Service) handleVehicleMonitoringJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	criteria, err := parseVehicleMonitoringQuery(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		s.metrics.RequestInc("vehicle-monitoring.json", http.StatusBadRequest)
		return
	}

	records, err := s.provider.List(r.Context())
	if err != nil {
		log.Printf("provider error: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Vehicle position data is currently unavailable."})
		s.metrics.RequestInc("vehicle-monitoring.json", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	matched := criteria.Apply(records)
	res, err := BuildVehicleMonitoring(matched, time.Now().UTC(), s.cfg.Feed.ProducerRef)
	if err != nil {
		log.Printf("build vehicle monitoring: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Internal error building response."})
		s.metrics.RequestInc("vehicle-monitoring.json", http.StatusInternalServerError)
		return
	}
	buf := formatter.BuildVehicleMonitoringJSON(res)
	s.metrics.RenderObserve(time.Since(start))
	s.metrics.VehiclesRenderedAdd(len(matched))
	s.metrics.RequestInc("vehicle-monitoring.json", http.StatusOK)
	_, _ = w.Write(buf)
}

func (s *Service) handleCheckStatusJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	res := BuildCheckStatus(ServiceStatus{
		Status:             true,
		ServiceStartedTime: s.startedAt,
		DataReady:          true,
	})
	s.metrics.RequestInc("check-status.json", http.StatusOK)
	_, _ = w.Write(formatter.BuildCheckStatusJSON(res))
}

func (s *Service) handleCheckStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml")
	res := BuildCheckStatus(ServiceStatus{
		Status:             true,
		ServiceStartedTime: s.startedAt,
		DataReady:          true,
	})
	s.metrics.RequestInc("check-status", http.StatusOK)
	_, _ = w.Write(formatter.BuildCheckStatusXML(res))
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]string{
		"status":    "healthy",
		"timestamp": SiriTimestamp(time.Now().UTC()),
		"service":   "bods-feed",
		"version":   serviceVersion,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Service) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{
		"service": "BODS SIRI-VM Feed",
		"version": serviceVersion,
		"endpoints": map[string]string{
			"check_status":       "/check-status",
			"vehicle_monitoring": "/vehicle-monitoring",
			"health":             "/health",
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// handleIngest accepts one self-tracked position, stores it and fans it out
// over NATS when a publisher is configured.
func (s *Service) handleIngest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "method not allowed"})
		return
	}
	if s.store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "position storage is not configured"})
		s.metrics.RequestInc("vehicle-position", http.StatusServiceUnavailable)
		return
	}

	var rec VehiclePositionRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid JSON body"})
		s.metrics.RequestInc("vehicle-position", http.StatusBadRequest)
		return
	}
	if rec.RecordedAtTime.IsZero() {
		rec = rec.Stamp(time.Now().UTC())
	} else {
		rec = rec.Stamp(rec.RecordedAtTime)
	}
	if err := rec.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		s.metrics.RequestInc("vehicle-position", http.StatusBadRequest)
		return
	}

	if err := s.store.Insert(r.Context(), rec); err != nil {
		log.Printf("insert position: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "failed to store position"})
		s.metrics.RequestInc("vehicle-position", http.StatusInternalServerError)
		return
	}
	if s.publisher != nil {
		if err := s.publisher.PublishPosition(rec); err != nil {
			log.Printf("publish position: %v", err)
		}
	}
	s.metrics.PositionsIngestedInc()
	s.metrics.RequestInc("vehicle-position", http.StatusCreated)
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Vehicle position stored"})
}

// handleDelete bulk-removes stored positions matching the query filters.
func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "method not allowed"})
		return
	}
	if s.store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "position storage is not configured"})
		s.metrics.RequestInc("vehicle-positions", http.StatusServiceUnavailable)
		return
	}

	filter, err := parseDeleteQuery(r.URL.Query())
	if err != nil {
		var qerr *QueryError
		if errors.As(err, &qerr) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": qerr.Msg})
			s.metrics.RequestInc("vehicle-positions", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	deleted, err := s.store.Delete(r.Context(), filter)
	if err != nil {
		log.Printf("delete positions: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "failed to delete positions"})
		s.metrics.RequestInc("vehicle-positions", http.StatusInternalServerError)
		return
	}
	s.metrics.PositionsDeletedAdd(deleted)
	s.metrics.RequestInc("vehicle-positions", http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "success",
		"deleted": deleted,
	})
}
