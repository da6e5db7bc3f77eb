// Package pagefetch turns an optional product link into a short plain-text
// snippet for the analysis prompt. Every failure degrades to "no snippet".
package pagefetch

import (
	"net/url"
	"strings"
)

const localSuffix = ".local"

// SafeURL validates a user-supplied link for server-side fetching. It returns
// the canonical URL and true, or "" and false when the link is unusable.
// Rejection is not an error: the link is optional context.
func SafeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" || host == "localhost" || host == "127.0.0.1" || strings.HasSuffix(host, localSuffix) {
		return "", false
	}

	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}
	return u.String(), true
}
