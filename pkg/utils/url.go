package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// HashURL returns the hex sha256 of a URL, used as a fixed-width cache key.
func HashURL(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// ToAbsoluteURL resolves href against base. Scheme-relative and
// path-relative links both work.
func ToAbsoluteURL(base *url.URL, href string) (string, error) {
	rel, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(rel).String(), nil
}

// CanonicalURL trims whitespace and drops the fragment so the same article
// linked with different anchors dedupes to one key.
func CanonicalURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
