package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/metrics"
	"github.com/droverhq/drover/pkg/registry"
	"github.com/droverhq/drover/pkg/statestore"
	"github.com/droverhq/drover/pkg/types"
)

// HealthServer provides HTTP health check endpoints
type HealthServer struct {
	store    *statestore.Store
	fab      *fabric.Fabric
	registry *registry.Registry
	mux      *http.ServeMux
}

// NewHealthServer creates a new health check HTTP server
func NewHealthServer(store *statestore.Store, fab *fabric.Fabric, reg *registry.Registry) *HealthServer {
	mux := http.NewServeMux()
	hs := &HealthServer{
		store:    store,
		fab:      fab,
		registry: reg,
		mux:      mux,
	}

	// Register endpoints
	mux.HandleFunc("/health", hs.healthHandler)
	mux.HandleFunc("/ready", hs.readyHandler)
	mux.Handle("/metrics", metrics.Handler())

	return hs
}

// Start starts the health check HTTP server
func (hs *HealthServer) Start(addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      hs.mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse represents the readiness check response
type ReadyResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Message   string            `json:"message,omitempty"`
}

// healthHandler implements the /health endpoint
// This is a simple liveness check - returns 200 if the process is alive
func (hs *HealthServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// readyHandler implements the /ready endpoint
// This checks if the coordinator can actually serve the fleet
func (hs *HealthServer) readyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	checks := make(map[string]string)
	ready := true
	var message string

	// Check 1: state store reachable
	if hs.store != nil {
		if err := hs.store.Ping(r.Context()); err != nil {
			checks["statestore"] = fmt.Sprintf("error: %v", err)
			ready = false
			message = "State store not accessible"
		} else {
			checks["statestore"] = "ok"
		}
	} else {
		checks["statestore"] = "not initialized"
		ready = false
		message = "State store not initialized"
	}

	// Check 2: message fabric connected
	if hs.fab != nil && hs.fab.Connected() {
		checks["fabric"] = "connected"
	} else {
		checks["fabric"] = "disconnected"
		ready = false
		if message == "" {
			message = "Broker connection down"
		}
	}

	// Check 3: fleet registry. An empty fleet is not an error, the
	// count is informational.
	if hs.registry != nil {
		agents := hs.registry.List(types.AgentFilter{})
		connected := 0
		for _, a := range agents {
			if a.Status == types.AgentStatusConnected {
				connected++
			}
		}
		checks["fleet"] = fmt.Sprintf("%d agents (%d connected)", len(agents), connected)
	} else {
		checks["fleet"] = "not initialized"
	}

	status := "ready"
	statusCode := http.StatusOK

	if !ready {
		status = "not ready"
		statusCode = http.StatusServiceUnavailable
	}

	response := ReadyResponse{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
		Message:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// GetHandler returns the HTTP handler for embedding in other servers
func (hs *HealthServer) GetHandler() http.Handler {
	return hs.mux
}
