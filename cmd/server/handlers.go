package main

import (
	"net/http"

	"github.com/dmitrymomot/dispatch"
	"github.com/dmitrymomot/dispatch/pkg/session"
)

// index counts visits in the session: the first visit stores 0, every
// later one adds 1. The response echoes the path and the session document.
func index(r *dispatch.Request, c *dispatch.Context) (*dispatch.Response, error) {
	if c.Session == nil {
		return nil, session.ErrNotConfigured
	}

	count, ok := session.Int(c.Session, "count")
	if ok {
		count++
	}
	c.Session.Set("count", count)

	return dispatch.OK(map[string]any{
		"Hello":   "World!",
		"path":    r.Path,
		"session": c.Session,
	})
}

// unauthed always answers 401 with a JSON body.
func unauthed(r *dispatch.Request, _ *dispatch.Context) (*dispatch.Response, error) {
	return dispatch.JSON(http.StatusUnauthorized, map[string]string{
		"msg":  "Unauthed",
		"path": r.Path,
	})
}
