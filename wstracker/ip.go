package wstracker

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// The IP of the remote end of the request, with IPv4-mapped IPv6 addresses unmapped.
func RemoteAddrHost(r *http.Request) (netip.Addr, error) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return netip.Addr{}, err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, err
	}
	return addr.Unmap(), nil
}

// Uses the first address in X-Forwarded-For, for instances behind a reverse proxy. Falls back to
// the remote address.
func ForwardedForHost(r *http.Request) (netip.Addr, error) {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.Unmap(), nil
		}
	}
	return RemoteAddrHost(r)
}

// Returns an Upgrader CheckOrigin that accepts requests without an Origin header, and those whose
// Origin is one of origins. No origins accepts everything.
func CheckOrigins(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.ToLower(o)] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}
}
