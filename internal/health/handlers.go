// Package health exposes the liveness, readiness and status probes.
package health

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/noah-isme/payment-simulator/internal/common"
)

var ready atomic.Bool

func init() { ready.Store(true) }

// SetReady flips the readiness gate. Shutdown flips it off so load
// balancers drain the instance before connections close.
func SetReady(v bool) { ready.Store(v) }

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Now func() time.Time
}

func (h Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Status reports overall service status.
func (h Handler) Status(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"message":   "Payment API Simulator is running",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness. The service holds no external dependencies,
// so readiness only tracks the shutdown gate.
func (h Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	if !ready.Load() {
		common.JSON(w, http.StatusServiceUnavailable, map[string]any{"status": "shutting down"})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
