package httputil

import (
	"net"
	"net/http"
)

// ClientIP returns the host part of r.RemoteAddr. Forwarding headers are
// not read here: the router's RealIP middleware rewrites RemoteAddr from
// them, and only for configured trusted proxies.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
