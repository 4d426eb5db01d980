package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/domain/contract"
	"github.com/sirupsen/logrus"
)

// Pinger is anything readiness depends on, e.g. the history database.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	rotationService contract.RotationService
	deps            map[string]Pinger
	log             *logrus.Entry
}

func NewHealth(rotationService contract.RotationService, deps map[string]Pinger, log *logrus.Entry) *HealthHandler {
	return &HealthHandler{
		rotationService: rotationService,
		deps:            deps,
		log:             log,
	}
}

// HandleHealth reports liveness only.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReady fails while a dependency is unreachable.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	code := http.StatusOK
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			h.log.WithError(err).Warnf("Readiness check %s failed", name)
			checks[name] = err.Error()
			code = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	status := "ok"
	if code != http.StatusOK {
		status = "unavailable"
	}
	writeJSON(w, code, map[string]any{"status": status, "checks": checks})
}

// HandleMetrics renders the rotation gauges in the Prometheus text format.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	status := h.rotationService.Status()

	pending := 0
	if status.State.Pending != nil {
		pending = 1
	}

	var b strings.Builder
	gauge := func(name, help string, value any) {
		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s gauge\n%s %v\n", name, help, name, name, value)
	}

	gauge("rotation_index", "Index of the member whose turn it is.", status.State.Index)
	gauge("next_rotation_index", "Index that the next confirm or skip moves to.", status.State.NextIndex())
	gauge("roster_size", "Number of members in the rotation.", len(status.State.Roster))
	gauge("pending_reminder", "1 while a reminder is waiting for an answer.", pending)
	fmt.Fprintf(&b, "# HELP persist_failures_total State writes that failed since start.\n# TYPE persist_failures_total counter\npersist_failures_total %d\n", status.PersistFailures)

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
