package handlers

import (
	"context"
	"net/http"
	"time"
)

// Health reports ok, or 503 when the database ping fails.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	if a.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Ping(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("health check failed")
			a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
