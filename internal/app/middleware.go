package app

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/klokku/eventroster/internal/config"
	"github.com/klokku/eventroster/internal/transport"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	r.Use(requestIdMiddleware)
}

// requestIdMiddleware reuses the caller's X-Request-Id or generates one, and propagates it
// to the backend calls made while serving the request.
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		requestId := req.Header.Get(transport.RequestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		w.Header().Set(transport.RequestIdHeader, requestId)

		started := time.Now()
		next.ServeHTTP(w, req.WithContext(transport.WithRequestId(req.Context(), requestId)))
		log.WithFields(log.Fields{
			"requestId": requestId,
			"method":    req.Method,
			"path":      req.URL.Path,
			"duration":  time.Since(started),
		}).Debug("Request handled")
	})
}
