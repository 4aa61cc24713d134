package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/bootstrap/pkg/logger"
)

// StatusRecorder captures the status code and body size of a response.
// Only the first status written is kept, matching what the client sees.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
	Size   int

	wroteHeader bool
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (r *StatusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.Status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *StatusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	n, err := r.ResponseWriter.Write(b)
	r.Size += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *StatusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Logging logs one line per request. Server errors are logged at error
// level, client errors at warn, everything else at info.
func Logging(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Noop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := NewStatusRecorder(w)
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.Status >= http.StatusInternalServerError:
				level = slog.LevelError
			case rec.Status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			log.LogAttrs(r.Context(), level, "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				logger.Status(rec.Status),
				slog.Int("size", rec.Size),
				logger.Duration(time.Since(start)),
				slog.String("ip", r.RemoteAddr),
			)
		})
	}
}
