package server

import (
	"net"
	"net/http"
	"time"

	"atlas-hq/gatewarden/pkg/admission"
)

// Header names the middleware reads to build the request descriptor.
const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderIdentity = "X-Identity"
)

// Middleware gates next behind the limiter for embedders that already run an
// HTTP stack. The descriptor is derived from the request: tenant and identity
// from headers, IP from the remote address, and the receive time as event
// time. Denied requests get 429 without reaching next.
func Middleware(limiter *admission.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}

		decision, err := limiter.Check(admission.Request{
			IP:        ip,
			Identity:  r.Header.Get(HeaderIdentity),
			Path:      r.URL.Path,
			Method:    r.Method,
			TenantID:  r.Header.Get(HeaderTenantID),
			EventTime: time.Now().UnixMilli(),
		})
		if err != nil {
			http.Error(w, "admission check failed", http.StatusInternalServerError)
			return
		}
		if !decision.Allowed {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
