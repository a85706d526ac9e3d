package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/metrics"
)

// Observability - middleware for prometheus and access logs
func Observability(logger logx.Logger, m *metrics.HTTP) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor) // через прокси читаем ответ
			next.ServeHTTP(ww, r)
			path := pathPattern(r) // шаблон маршрута, а не сырой путь
			tm := time.Since(start)
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}

			m.Observe(r.Method, path, strconv.Itoa(code), tm.Seconds())

			fields := []logx.Field{
				logx.String("method", r.Method),
				logx.String("path", path),
				logx.Int("status", code),
				logx.Duration("duration", tm),
			}
			if id := chimw.GetReqID(r.Context()); id != "" {
				fields = append(fields, logx.String("request_id", id))
			}
			if code >= http.StatusInternalServerError {
				logger.Warn("http request", fields...)
				return
			}
			logger.Info("http request", fields...)
		})
	}
}

func pathPattern(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
