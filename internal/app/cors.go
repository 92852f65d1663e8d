package app

import (
	"net/url"
	"strings"
)

// originAllowed reports whether a request origin matches any configured
// pattern. Patterns are bare hostnames ("habaru.mv") or subdomain wildcards
// ("*.habaru.mv", which also matches the apex). Ports are ignored so a
// staging frontend on a non-standard port does not need its own entry.
func originAllowed(patterns []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}

	for _, p := range patterns {
		if p == host {
			return true
		}
		if apex, ok := strings.CutPrefix(p, "*."); ok {
			if host == apex || strings.HasSuffix(host, "."+apex) {
				return true
			}
		}
	}
	return false
}
