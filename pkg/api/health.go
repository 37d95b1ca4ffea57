package api

import (
	"net/http"
	"time"

	"github.com/heyjunin/maaw/pkg/config"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "healthy",
		"message":           "MAAW API is running",
		"timestamp":         s.now().UTC().Format(time.RFC3339Nano),
		"version":           config.Version,
		"gemini_configured": s.cfg.GeminiConfigured(),
		"environment":       s.cfg.Environment,
		"endpoints": []string{
			"GET /api/health",
			"GET /api/debug",
			"POST /api/debug",
			"POST /api/process_product",
			"POST /api/login",
			"POST /api/login_tracking",
			"GET /api/logs",
			"DELETE /api/logs",
			"GET /api/debug/panel",
			"GET /ws/debug",
		},
	})
}
