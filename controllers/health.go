package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"skillshare-api/utils"
)

// Pinger reports backend reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness and readiness checks
type HealthController struct {
	base
	DB Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger, logger *zap.Logger, timeout time.Duration) *HealthController {
	return &HealthController{base: newBase(logger, timeout), DB: db}
}

// Home is the plain-text liveness endpoint
func (hc *HealthController) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("skillShare is running"))
}

// Health pings the database
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := hc.context(r)
	defer cancel()

	if err := hc.DB.Ping(ctx); err != nil {
		hc.Logger.Warn("health check failed", zap.Error(err))
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db unreachable"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
