package ratelimit

import (
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"courier-dispatch/internal/logx"
)

// KeyFunc выбирает ключ бакета для запроса
type KeyFunc func(r *http.Request) string

// ByClientIP keys buckets by the client address.
func ByClientIP(r *http.Request) string { return clientIP(r) }

// ByClientRoute keys buckets by client address and route pattern.
// The pattern is only complete for inline middleware (chi.With).
func ByClientRoute(r *http.Request) string {
	ip := clientIP(r)
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return ip + " " + r.Method + " " + p
		}
	}
	return ip + " " + r.Method + " " + r.URL.Path
}

// Middleware представляет собой middleware для ограничения количества запросов
type Middleware struct {
	logger  logx.Logger        // логгер
	counter prometheus.Counter // счетчик
	limiter Limiter            // лимитер
	key     KeyFunc
}

// New создает новый Middleware. A nil key falls back to ByClientIP.
func New(logger logx.Logger, counter prometheus.Counter, limiter Limiter, key KeyFunc) *Middleware {
	if limiter == nil {
		limiter = NopLimiter{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if key == nil {
		key = ByClientIP
	}
	return &Middleware{
		logger:  logger,
		counter: counter,
		limiter: limiter,
		key:     key,
	}
}

// Handler returns chi-style middleware.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := m.limiter.Allow(m.key(r))
			if ok {
				next.ServeHTTP(w, r)
				return
			}
			// считаю отказы
			if m.counter != nil {
				m.counter.Inc()
			}
			ip := clientIP(r)
			m.logger.Warn("rate limit exceeded",
				logx.String("ip", ip),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
			)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := io.WriteString(w, `{"error":"too many requests"}`); err != nil {
				// клиент мог оборвать соединение
				m.logger.Debug("rate limit response write failed",
					logx.String("ip", ip),
					logx.Any("err", err),
				)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	// RemoteAddr уже переписан RealIP в роутере
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// retryAfterSeconds rounds wait up to whole seconds, at least one.
func retryAfterSeconds(wait time.Duration) int {
	secs := int((wait + time.Second - 1) / time.Second)
	return max(secs, 1)
}
