// Package domainutil canonicalizes raw domain and URL strings into the
// comparable form used as the rule key: lowercase, no scheme, no path, no
// leading "www." label.
package domainutil

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidDomain reports input that does not reduce to a plausible domain.
var ErrInvalidDomain = errors.New("invalid domain")

// label segments of letters/digits with internal hyphens, ending in a TLD of
// at least two letters
var domainPattern = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*\.)+[a-z]{2,}$`)

// Normalize canonicalizes a full URL or bare domain into the rule key form.
func Normalize(raw string) (string, error) {
	d := strings.TrimSpace(raw)
	if d == "" {
		return "", ErrInvalidDomain
	}
	d = stripScheme(d)
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	d = strings.ToLower(d)
	d = strings.TrimPrefix(d, "www.")
	if !domainPattern.MatchString(d) {
		return "", ErrInvalidDomain
	}
	return d, nil
}

// Host extracts the normalized host of a request URL. Callers on the
// blocking path treat an error as allow.
func Host(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	h := u.Hostname()
	if h == "" {
		// bare host without a scheme parses as a path
		return Normalize(rawURL)
	}
	h = strings.ToLower(h)
	return strings.TrimPrefix(h, "www."), nil
}

// FromURL derives the display domain of a history record URL. Unparsable
// input yields "unknown" rather than an error.
func FromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func stripScheme(s string) string {
	for _, p := range []string{"http://", "https://"} {
		if strings.HasPrefix(strings.ToLower(s), p) {
			return s[len(p):]
		}
	}
	return s
}
