package httpapi

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// resolveClientIP walks the usual proxy headers before falling back to
// the socket address; an empty string means nothing parseable was found.
func resolveClientIP(r *http.Request) string {
	for _, raw := range []string{
		r.Header.Get("Fly-Client-IP"),
		r.Header.Get("X-Forwarded-For"),
		r.Header.Get("X-Real-IP"),
		r.RemoteAddr,
	} {
		if ip, ok := parseForwardedIP(raw); ok {
			return ip
		}
	}

	return ""
}

// parseForwardedIP reads the first hop of a forwarded-for chain. The
// value may carry a port, which is stripped before parsing.
func parseForwardedIP(raw string) (string, bool) {
	first, _, _ := strings.Cut(raw, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return "", false
	}

	if host, _, err := net.SplitHostPort(first); err == nil {
		first = host
	}

	addr, err := netip.ParseAddr(first)
	if err != nil {
		return "", false
	}
	return addr.String(), true
}
