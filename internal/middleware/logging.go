package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HTTPRecorder принимает итоги HTTP-запросов (метрики).
type HTTPRecorder interface {
	ObserveHTTP(method, path string, status int, d time.Duration)
}

// Logging логирует метод, путь, статус и длительность и передаёт их в recorder.
// В метрики попадает шаблон маршрута chi, а не сырой путь.
func Logging(logger *slog.Logger, recorder HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			if r.URL.Path == "/ping" || r.URL.Path == "/metrics" {
				// Пропускаем служебные пути, чтобы не засорять логи.
				return
			}

			if recorder != nil {
				recorder.ObserveHTTP(r.Method, routePattern(r), ww.status, elapsed)
			}

			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Int("bytes", ww.bytes),
				slog.Duration("duration", elapsed),
				slog.String("request_id", r.Header.Get(headerRequestID)),
			)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
