package cookie

import (
	"net/http"
	"strings"
)

// Parse splits a Cookie header value into a name/value map.
// Entries that are not valid name=value pairs are skipped instead of
// failing the whole header. When a name repeats, the first occurrence wins,
// matching the order browsers send most specific cookies first.
func Parse(header string) map[string]string {
	cookies := make(map[string]string)

	for part := range strings.SplitSeq(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}

		name = strings.TrimSpace(name)
		if !validName(name) {
			continue
		}

		value, ok = unquote(strings.TrimSpace(value))
		if !ok {
			continue
		}

		if _, seen := cookies[name]; !seen {
			cookies[name] = value
		}
	}

	return cookies
}

// FromHeader parses every Cookie header line in h.
func FromHeader(h http.Header) map[string]string {
	cookies := make(map[string]string)
	for _, line := range h.Values("Cookie") {
		for name, value := range Parse(line) {
			if _, seen := cookies[name]; !seen {
				cookies[name] = value
			}
		}
	}
	return cookies
}

// Get returns the named cookie from h.
// Returns ErrNotFound if the cookie is absent.
func Get(h http.Header, name string) (string, error) {
	v, ok := FromHeader(h)[name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// validName reports whether s is an RFC 6265 token.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 0x20 || c >= 0x7f || strings.IndexByte("()<>@,;:\\\"/[]?={}", c) >= 0 {
			return false
		}
	}
	return true
}

// unquote strips surrounding double quotes and rejects octets that are not
// allowed in a cookie value.
func unquote(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x21 || c == '"' || c == ',' || c == ';' || c == '\\' || c >= 0x7f {
			return "", false
		}
	}
	return s, true
}
