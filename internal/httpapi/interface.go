package httpapi

import (
	"context"
	"net/http"
)

// Server exposes session intake, runs and stored reports over HTTP.
type Server interface {
	// Start blocks serving until Shutdown is called.
	Start() error
	Shutdown(ctx context.Context) error
	Handler() http.Handler
}
