package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"rental-backend/internal/handler"
	"rental-backend/internal/rental"
)

// NewRouter builds the full HTTP surface on top of an injected service.
func NewRouter(svc rental.Service) *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	handler.NewOrderHandler(svc).RegisterRoutes(r)
	handler.NewDeviceHandler(svc).RegisterRoutes(r)

	return r
}

// requestID tags every request with a generated id so log lines from one
// request can be correlated.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.NewV4()
		if err == nil {
			w.Header().Set("X-Request-Id", id.String())
			log.Debug().Stringer("request_id", id).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request received")
		}
		next.ServeHTTP(w, r)
	})
}
