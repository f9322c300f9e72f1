package http

import (
	"net/http"

	"go.uber.org/zap"
)

// NewRouter wires the REST and websocket handlers behind the request id,
// access log and identity middleware.
func NewRouter(service ProgressService, jwtSecret string, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	NewHandler(service, log).Register(mux)
	mux.HandleFunc("GET /ws", NewWSHandler(service, log).ServeWS)

	var h http.Handler = mux
	h = Identity(jwtSecret, log)(h)
	h = AccessLog(log)(h)
	h = RequestID(h)
	return h
}
