package upload

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MaxVideoSize caps website preview videos at 50MB, checked before any
// storage call.
const MaxVideoSize = 50 * 1024 * 1024

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail performs the basic shape check applied before submission.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// NormalizeURL validates a website URL, assuming https:// when no scheme is
// given, and returns the normalized form.
func NormalizeURL(raw string) (string, error) {
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid url %q", raw)
	}
	return u.String(), nil
}

// SplitList splits comma-separated free text into trimmed, non-empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// AtHandle normalizes a social handle to its @-prefixed form; empty stays
// empty.
func AtHandle(handle string) string {
	if handle == "" || strings.HasPrefix(handle, "@") {
		return handle
	}
	return "@" + handle
}

// AllowedMedia reports whether the declared content type carries the
// expected media prefix ("image/" for designs, "video/" for websites).
func AllowedMedia(contentType, prefix string) bool {
	return strings.HasPrefix(contentType, prefix)
}
