package middleware

import (
	"net/http"
	"time"

	"shopsifu-discount/internal/auth"
	"shopsifu-discount/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Identity headers set by the API gateway after it authenticates the user.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

// RequireActor extracts the gateway-authenticated identity from the request
// headers and stores it on the context. Requests without a valid identity
// are rejected with 401.
func RequireActor(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get(HeaderUserID)
			if rawID == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing identity header")
				http.Error(w, "unauthorised: missing identity", http.StatusUnauthorized)
				return
			}

			userID, err := uuid.Parse(rawID)
			if err != nil {
				logger.Warn().Str("path", r.URL.Path).Msg("malformed identity header")
				http.Error(w, "unauthorised: invalid identity", http.StatusUnauthorized)
				return
			}

			role := model.Role(r.Header.Get(HeaderUserRole))
			if role != model.RoleAdmin && role != model.RoleSeller {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("role", string(role)).
					Msg("unknown role header")
				http.Error(w, "unauthorised: invalid role", http.StatusUnauthorized)
				return
			}

			ctx := auth.WithActor(r.Context(), model.Actor{ID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error": "internal server error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
