package internal

import (
	"errors"
	"net/http"
	"regexp"
	"slices"
	"strings"
)

// HandlerFunc handles a request whose path matched a view.
// Returning an error skips the post phase and produces an error response.
type HandlerFunc func(r *Request, c *Context) (*Response, error)

// View binds a path pattern and a method set to a handler.
type View struct {
	Pattern *regexp.Regexp
	Handler HandlerFunc
	Methods []string // empty allows every method
}

// NewView compiles pattern and builds a view. The pattern must match the
// whole path: it is anchored at both ends. Methods are upper-cased.
func NewView(pattern string, methods []string, h HandlerFunc) (*View, error) {
	if h == nil {
		return nil, ErrNilHandler
	}

	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, errors.Join(ErrInvalidPattern, err)
	}

	ms := make([]string, 0, len(methods))
	for _, m := range methods {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" && !slices.Contains(ms, m) {
			ms = append(ms, m)
		}
	}

	return &View{Pattern: re, Methods: ms, Handler: h}, nil
}

// Allows reports whether the view accepts method.
// HEAD is accepted wherever GET is.
func (v *View) Allows(method string) bool {
	if len(v.Methods) == 0 || slices.Contains(v.Methods, method) {
		return true
	}
	return method == http.MethodHead && slices.Contains(v.Methods, http.MethodGet)
}

// Allow returns the value of the Allow header for a 405 response.
func (v *View) Allow() string {
	return strings.Join(v.Methods, ", ")
}

// RouteMatch is the result of a successful Match.
type RouteMatch struct {
	View   *View
	Params map[string]string
}

// Match returns the first view, in registration order, whose pattern matches
// path, together with the named groups that took part in the match.
// Unnamed groups are ignored. It reports false when nothing matches.
func Match(views []*View, path string) (RouteMatch, bool) {
	for _, v := range views {
		loc := v.Pattern.FindStringSubmatchIndex(path)
		if loc == nil {
			continue
		}

		params := make(map[string]string)
		for i, name := range v.Pattern.SubexpNames() {
			if i == 0 || name == "" || loc[2*i] < 0 {
				continue
			}
			params[name] = path[loc[2*i]:loc[2*i+1]]
		}

		return RouteMatch{View: v, Params: params}, true
	}

	return RouteMatch{}, false
}
