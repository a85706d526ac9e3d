// Package admin serves the operator listener: pprof profiles and metrics,
// open to loopback clients and behind basic auth for everyone else.
package admin

import (
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"courier-dispatch/internal/config"
)

// Handler returns the admin routes. metrics may be nil.
func Handler(cfg config.Admin, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler { return authOrLocalOnly(next, cfg) })

	r.HandleFunc("/debug/pprof/", pprof.Index)
	r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	r.HandleFunc("/debug/pprof/trace", pprof.Trace)
	r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	for _, name := range []string{"heap", "goroutine", "allocs", "block", "mutex", "threadcreate"} {
		r.Handle("/debug/pprof/"+name, pprof.Handler(name))
	}
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
	return r
}

// NewServer returns the admin http.Server, or nil when the listener is disabled.
func NewServer(cfg config.Admin, metrics http.Handler) *http.Server {
	if cfg.Port == 0 {
		return nil
	}
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           Handler(cfg, metrics),
		ReadHeaderTimeout: 5 * time.Second,
		// profile and trace stream for up to their seconds parameter
		WriteTimeout: 2 * time.Minute,
	}
}

func authOrLocalOnly(next http.Handler, cfg config.Admin) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isLoopback(r.RemoteAddr) {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if cfg.User == "" || cfg.Pass == "" || !ok || !secureEq(u, cfg.User) || !secureEq(p, cfg.Pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureEq(u, s string) bool {
	if len(u) != len(s) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u), []byte(s)) == 1
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}
