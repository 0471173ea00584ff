package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/folio/internal/common"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
		"version": common.GetVersion(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig handles GET /api/config — the running configuration with
// secrets masked.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment": cfg.Environment,
		"server": map[string]interface{}{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
		},
		"storage": map[string]string{
			"path": cfg.Storage.Path,
		},
		"clients": map[string]interface{}{
			"yahoo": map[string]interface{}{
				"base_url":  cfg.Clients.Yahoo.BaseURL,
				"quote_ttl": cfg.Clients.Yahoo.QuoteTTL,
			},
			"openai": map[string]string{
				"model":   cfg.Clients.OpenAI.Model,
				"api_key": maskSecret(cfg.Clients.OpenAI.APIKey),
			},
			"alphavantage": map[string]string{
				"api_key": maskSecret(cfg.Clients.AlphaVantage.APIKey),
			},
		},
		"upload": map[string]int{
			"max_size_mb": cfg.Upload.MaxSizeMB,
		},
		"logging": map[string]string{
			"level": cfg.Logging.Level,
		},
	})
}

// maskSecret hides all but the last 4 characters of a secret.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
