package server

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tierwatt/tierwatt/pkg/log"
)

const requestIDHeader = "X-Request-ID"

func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Strict-Transport-Security: max-age=2 years
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")

		// Prevent MIME-sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) revisionMiddleware(next http.Handler) http.Handler {
	if s.serverName == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", s.serverName)
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags the request's logger and response with a request
// ID. A caller supplied ID is kept only if it is a valid UUID.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := r.Context()
		logger := log.Ctx(ctx).With(
			slog.String("requestID", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(log.With(ctx, logger)))
	})
}
