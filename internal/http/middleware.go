package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/GreeFine/orim-back/internal/app"
	"github.com/GreeFine/orim-back/internal/protocol"
	"github.com/GreeFine/orim-back/pkg/ratelimit"
)

type Middleware struct {
	cors   *cors.Cors
	rlimit *ratelimit.Limiter
	log    *slog.Logger
}

// NewMiddleware builds the shared middleware stack from config
func NewMiddleware(cfg app.Config, log *slog.Logger) *Middleware {
	return &Middleware{
		cors: cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllow,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		}),
		rlimit: ratelimit.New(cfg.RateMax, time.Minute),
		log:    log,
	}
}

// Wrap applies panic recovery + CORS + rate limiting to a handler
func (m *Middleware) Wrap(h http.Handler) http.Handler {
	return m.Recover(m.cors.Handler(m.rlimit.Middleware(h)))
}

// Recover converts an escaped panic into the JSON 500 body and logs it.
// Panics inside an upgraded websocket never reach here; the connection
// handler contains them itself.
func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.log.Error("http.unhandled", "path", r.URL.Path, "panic", rec)
				protocol.WriteHTTP(w, http.StatusInternalServerError, "UNHANDLED_REJECTION")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
