package credential

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrOriginNotAllowed = errors.New("origin is not allowed")

// RPResolver picks the relying party id for a request. A placeholder value
// ("", "auto" or "*") follows the hostname of the calling origin, as does
// "localhost" when the caller is not on localhost. Anything else is used as is.
// Resolution happens per call and is never cached.
type RPResolver struct {
	Configured string
	Origins    []string
}

func (r RPResolver) isPlaceholder(host string) bool {
	switch v := strings.TrimSpace(strings.ToLower(r.Configured)); v {
	case "", "auto", "*":
		return true
	case "localhost":
		return !strings.EqualFold(host, v)
	}
	return false
}

// Resolve validates origin and returns the relying party id to use with it.
func (r RPResolver) Resolve(origin string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return "", fmt.Errorf("%w: %q", ErrOriginNotAllowed, origin)
	}
	if len(r.Origins) > 0 && !r.allowed(origin) {
		return "", fmt.Errorf("%w: %q", ErrOriginNotAllowed, origin)
	}
	if r.isPlaceholder(u.Hostname()) {
		return u.Hostname(), nil
	}
	return r.Configured, nil
}

func (r RPResolver) allowed(origin string) bool {
	origin = strings.TrimSuffix(origin, "/")
	for _, o := range r.Origins {
		if strings.EqualFold(strings.TrimSuffix(o, "/"), origin) {
			return true
		}
	}
	return false
}
