package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Dispatch routes r to a view and runs the middleware chain around it.
// It always returns a response; failures and panics become error responses.
//
// Order of operations:
//
//  1. the pre phase runs, even when no view matches;
//  2. an unmatched path yields 404 "Not found: <path>";
//  3. a method outside the view's set yields 405 with an Allow header;
//  4. the handler runs; an error skips the post phase;
//  5. the post phase runs and may replace the handler's response;
//  6. headers staged on the Context are added to the final response and
//     OnDone callbacks run, whichever step produced it.
func (a *App) Dispatch(r *Request) (res *Response) {
	reg := a.snapshot()
	match, matched := Match(reg.views, r.Path)

	c := &Context{
		provider: reg.provider,
		state:    reg.state,
		logger:   a.logger,
	}
	if matched {
		c.params = match.Params
	}

	defer func() {
		if p := recover(); p != nil {
			err := &PanicError{Value: p, Stack: debug.Stack()}
			a.logger.ErrorContext(r.Context(), "panic recovered",
				slog.String("method", r.Method),
				slog.String("path", r.Path),
				slog.Any("panic", p),
				slog.String("stack", string(err.Stack)),
			)
			res = a.errorResponse(r, err)
		}
		c.finish(res)
	}()

	return a.dispatch(r, c, reg.middlewares, match, matched)
}

func (a *App) dispatch(r *Request, c *Context, mws []Middleware, match RouteMatch, matched bool) *Response {
	if res, err := runPre(r, c, mws); err != nil {
		return a.fail(r, ErrMiddlewareFailure, err)
	} else if res != nil {
		return res
	}

	if !matched {
		return NotFound(r.Path)
	}

	if !match.View.Allows(r.Method) {
		res := Text(http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		res.Header.Set("Allow", match.View.Allow())
		return res
	}

	res, err := match.View.Handler(r, c)
	if err != nil {
		return a.fail(r, ErrHandlerFailure, err)
	}
	if res == nil {
		res = NoContent()
	}

	post, err := runPost(r, res, c, mws)
	if err != nil {
		return a.fail(r, ErrMiddlewareFailure, err)
	}
	if post != nil {
		return post
	}

	return res
}

// ServeHTTP adapts the app to net/http.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := NewRequest(r, a.maxBodySize)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		_ = Text(status, http.StatusText(status)).WriteTo(w)
		return
	}

	res := a.Dispatch(req)
	if r.Method == http.MethodHead {
		res.Body = nil
	}
	if err := res.WriteTo(w); err != nil {
		a.logger.DebugContext(r.Context(), "write response",
			slog.String("path", req.Path),
			slog.String("error", err.Error()),
		)
	}
}

func (a *App) fail(r *Request, kind, cause error) *Response {
	err := newFailure(kind, cause)
	a.logger.ErrorContext(r.Context(), kind.Error(),
		slog.String("method", r.Method),
		slog.String("path", r.Path),
		slog.String("error", cause.Error()),
	)
	return a.errorResponse(r, err)
}

// errorResponse calls the error handler, falling back to the default
// mapping if the handler returns nil or panics.
func (a *App) errorResponse(r *Request, err error) (res *Response) {
	defer func() {
		if p := recover(); p != nil {
			a.logger.ErrorContext(r.Context(), "error handler panic",
				slog.String("method", r.Method),
				slog.String("path", r.Path),
				slog.Any("panic", p),
			)
			res = DefaultErrorHandler(r, err)
		}
	}()

	if res := a.errorHandler(r, err); res != nil {
		return res
	}
	return DefaultErrorHandler(r, err)
}
