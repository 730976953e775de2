package httpx

import (
	"log/slog"
	"net/http"

	"github.com/GreeFine/orim-back/internal/app"
	"github.com/GreeFine/orim-back/internal/protocol"
	"github.com/GreeFine/orim-back/internal/ws"
	"github.com/GreeFine/orim-back/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers. Every
// failure surface (unknown route, bad method, panic) answers with the JSON
// {code, message} body.
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub) http.Handler {
	mw := NewMiddleware(cfg, logger)

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// Index banner
	mux.Handle("/{$}", getOnly(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ORIM API"))
	}))

	// Upgrade endpoints
	mux.Handle("/new", getOnly(hub.ServeNew))
	mux.Handle("/join/{room_id}", getOnly(hub.ServeJoin))

	// Anything else is a JSON 404
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		protocol.WriteHTTP(w, http.StatusNotFound, "NOT_FOUND")
	}))

	return mw.Wrap(mux)
}

// getOnly rejects non-GET methods with the JSON 405 body instead of the
// mux's plain-text default.
func getOnly(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			protocol.WriteHTTP(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
			return
		}
		h(w, r)
	})
}
