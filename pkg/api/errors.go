package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gitfolio/gitfolio/pkg/config"
)

// mapResolveError maps resolution errors to an HTTP status and message.
// Validation failures carry their path and expectation through to the
// client; anything else stays opaque.
func mapResolveError(err error) (int, string) {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Error()
	}
	if errors.Is(err, config.ErrValidationFailed) || errors.Is(err, config.ErrInvalidYAML) {
		return http.StatusBadRequest, err.Error()
	}

	slog.Error("Unexpected resolution error", "error", err)
	return http.StatusInternalServerError, "internal server error"
}
