package internal

import (
	"fmt"
	"strings"
)

// ExtractorSource reads one candidate value from a request.
type ExtractorSource = func(r *Request, c *Context) (string, bool)

// Extractor tries multiple sources in order and returns the first
// non-empty value.
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor creates an Extractor over sources, tried in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns the first non-empty value, or ("", false).
func (e Extractor) Extract(r *Request, c *Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(r, c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func nonEmpty(v string) (string, bool) {
	return v, v != ""
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return func(r *Request, _ *Context) (string, bool) {
		return nonEmpty(r.Header.Get(name))
	}
}

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource {
	return func(r *Request, _ *Context) (string, bool) {
		return nonEmpty(r.Query.Get(name))
	}
}

// FromCookie reads a cookie.
func FromCookie(name string) ExtractorSource {
	return func(r *Request, _ *Context) (string, bool) {
		v, _ := r.Cookie(name)
		return nonEmpty(v)
	}
}

// FromParam reads a path parameter of the matched view.
func FromParam(name string) ExtractorSource {
	return func(_ *Request, c *Context) (string, bool) {
		return nonEmpty(c.Param(name))
	}
}

// FromSession reads a session value, formatting non-strings with fmt.Sprint.
func FromSession(key string) ExtractorSource {
	return func(_ *Request, c *Context) (string, bool) {
		if c.Session == nil {
			return "", false
		}
		val, ok := c.Session.Get(key)
		if !ok || val == nil {
			return "", false
		}
		if s, ok := val.(string); ok {
			return nonEmpty(s)
		}
		return nonEmpty(fmt.Sprint(val))
	}
}

// FromBearerToken reads a Bearer token from the Authorization header.
func FromBearerToken() ExtractorSource {
	return func(r *Request, _ *Context) (string, bool) {
		auth := r.Header.Get("Authorization")
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return "", false
		}
		return nonEmpty(auth[7:])
	}
}
