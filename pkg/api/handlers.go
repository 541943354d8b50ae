package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/gitfolio/gitfolio/pkg/config"
	"github.com/gitfolio/gitfolio/pkg/version"
)

// healthHandler handles GET /healthz.
// Returns a minimal response suitable for unauthenticated access.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: version.GitCommit})
}

// listPresetsHandler handles GET /api/v1/presets: the bundle names a
// resolve payload may reference. Names only; bundle contents can carry
// operator credentials.
func (s *Server) listPresetsHandler(c *gin.Context) {
	names := make([]string, 0, len(s.cfg.Presets))
	for name := range s.cfg.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	c.JSON(http.StatusOK, PresetsResponse{Presets: names})
}

// resolveHandler handles POST /api/v1/resolve. The payload is a
// restricted settings tree; keys outside the web shape are stripped and
// reported back, never rejected.
func (s *Server) resolveHandler(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must be a JSON object"})
		return
	}

	resolved, dropped, err := config.ResolveWebInput(payload, s.cfg.Presets)
	if err != nil {
		status, msg := mapResolveError(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, ResolveResponse{
		Plugins: resolved.Plugins,
		Dropped: dropped,
	})
}
