package middleware

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// responseWriter captures the status code and body size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// Logger writes one structured line per request. Principal ids are read after
// the handler chain ran, so they appear only on authenticated routes.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			principal := &principalRecorder{}

			next.ServeHTTP(rw, r.WithContext(withRecorder(r.Context(), principal)))

			fields := []zap.Field{
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rw.statusCode),
				zap.Int("bytes", rw.bytesWritten),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			}
			if principal.id != "" {
				fields = append(fields, zap.String(principal.kind, principal.id))
			}

			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				logger.Error("HTTP request", fields...)
			case rw.statusCode >= http.StatusBadRequest:
				logger.Warn("HTTP request", fields...)
			default:
				logger.Info("HTTP request", fields...)
			}
		})
	}
}

// principalRecorder lets the auth middleware report who was authenticated
// back to the access log, which runs outside the route's context.
type principalRecorder struct {
	kind string
	id   string
}

type recorderKey struct{}

func withRecorder(ctx context.Context, p *principalRecorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, p)
}

func recordPrincipal(ctx context.Context, kind string, id uuid.UUID) {
	if p, ok := ctx.Value(recorderKey{}).(*principalRecorder); ok {
		p.kind = kind
		p.id = id.String()
	}
}
