package middlewares

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/dispatch/internal"
	"github.com/dmitrymomot/dispatch/pkg/session"
)

// Session returns middleware that loads the request's session in the pre
// phase and persists it in the post phase.
//
// Pre opens the session through the app's provider and stores it in
// Context.Session. Post saves a new or modified session and attaches the
// provider's cookie to the response; an unchanged session is left alone.
// A destroyed session is deleted through the provider when it implements
// session.Deleter. Without a configured provider both phases do nothing
// and Context.Session stays nil.
//
// Open failures (unknown remote id, tampered cookie) abort dispatch and
// reach the app's ErrorHandler. Post does not run when the handler fails,
// so a failed request never persists partial session changes.
func Session() internal.Middleware {
	return internal.MiddlewareFuncs{
		Pre: func(r *internal.Request, c *internal.Context) (*internal.Response, error) {
			p := c.Provider()
			if p == nil {
				return nil, nil
			}

			s, err := p.Open(r.Context(), r.Header)
			if err != nil {
				return nil, fmt.Errorf("open session: %w", err)
			}
			c.Session = s
			return nil, nil
		},
		Post: func(r *internal.Request, res *internal.Response, c *internal.Context) (*internal.Response, error) {
			p, s := c.Provider(), c.Session
			if p == nil || s == nil {
				return nil, nil
			}

			if s.IsDestroyed() {
				d, ok := p.(session.Deleter)
				if !ok {
					return nil, fmt.Errorf("delete session: %w", errors.ErrUnsupported)
				}
				cookie, err := d.Delete(r.Context(), s)
				if err != nil {
					return nil, fmt.Errorf("delete session: %w", err)
				}
				res.SetCookie(cookie)
				return nil, nil
			}

			if !s.NeedsSave() {
				return nil, nil
			}

			cookie, err := p.Save(r.Context(), s)
			if err != nil {
				return nil, fmt.Errorf("save session: %w", err)
			}
			s.ClearNew()
			res.SetCookie(cookie)
			return nil, nil
		},
	}
}
