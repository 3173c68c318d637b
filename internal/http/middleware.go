package http

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

const (
	apiCSP     = "default-src 'none'"
	swaggerCSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"
)

// SecurityHeaders adds security-related headers to all responses. API
// responses are never cached; the Swagger UI gets a CSP that lets it load
// its own assets.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if strings.HasPrefix(r.URL.Path, "/swagger/") {
			h.Set("Content-Security-Policy", swaggerCSP)
		} else {
			h.Set("Content-Security-Policy", apiCSP)
			h.Set("Cache-Control", "no-store")
		}

		next.ServeHTTP(w, r)
	})
}

// RealIP rewrites r.RemoteAddr to the client address reported by a trusted
// proxy. Requests from any other peer are passed through untouched, so
// their forwarding headers cannot move them to another rate limit bucket.
//
// X-Forwarded-For is walked right to left and the first hop that is not a
// trusted proxy wins; X-Real-IP is used when there is no X-Forwarded-For.
func RealIP(trusted []netip.Prefix) func(http.Handler) http.Handler {
	isTrusted := func(addr netip.Addr) bool {
		for _, p := range trusted {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			peer, ok := parseAddr(r.RemoteAddr)
			if ok && isTrusted(peer) {
				if client, ok := forwardedClient(r.Header, isTrusted); ok {
					r.RemoteAddr = client.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forwardedClient(h http.Header, isTrusted func(netip.Addr) bool) (netip.Addr, bool) {
	var hops []string
	for _, v := range h.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(v, ",")...)
	}

	if len(hops) > 0 {
		var last netip.Addr
		for i := len(hops) - 1; i >= 0; i-- {
			addr, ok := parseAddr(hops[i])
			if !ok {
				break
			}
			last = addr
			if !isTrusted(addr) {
				return addr, true
			}
		}
		// Every parsable hop was a proxy: the leftmost of them is the best we know.
		return last, last.IsValid()
	}

	if addr, ok := parseAddr(h.Get("X-Real-IP")); ok {
		return addr, true
	}
	return netip.Addr{}, false
}

// parseAddr accepts "ip" or "ip:port" with surrounding whitespace.
func parseAddr(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
