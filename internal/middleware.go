package internal

// Middleware intercepts requests before and after the handler.
//
// PreProcess runs before the handler. Returning a non-nil response stops
// the chain: no further middleware and no handler run, and that response
// is sent. PostProcess runs after the handler and may modify res in place
// or return a replacement. An error from either hook aborts dispatch.
type Middleware interface {
	PreProcess(r *Request, c *Context) (*Response, error)
	PostProcess(r *Request, res *Response, c *Context) (*Response, error)
}

// MiddlewareFuncs adapts plain functions to Middleware. A nil hook passes through.
type MiddlewareFuncs struct {
	Pre  func(r *Request, c *Context) (*Response, error)
	Post func(r *Request, res *Response, c *Context) (*Response, error)
}

func (m MiddlewareFuncs) PreProcess(r *Request, c *Context) (*Response, error) {
	if m.Pre == nil {
		return nil, nil
	}
	return m.Pre(r, c)
}

func (m MiddlewareFuncs) PostProcess(r *Request, res *Response, c *Context) (*Response, error) {
	if m.Post == nil {
		return nil, nil
	}
	return m.Post(r, res, c)
}

// runPre calls PreProcess on each middleware in order until one
// returns a response or an error.
func runPre(r *Request, c *Context, mws []Middleware) (*Response, error) {
	for _, m := range mws {
		res, err := m.PreProcess(r, c)
		if err != nil || res != nil {
			return res, err
		}
	}
	return nil, nil
}

// runPost calls PostProcess on each middleware in the same order as runPre,
// not reversed, until one returns a response or an error.
func runPost(r *Request, res *Response, c *Context, mws []Middleware) (*Response, error) {
	for _, m := range mws {
		out, err := m.PostProcess(r, res, c)
		if err != nil || out != nil {
			return out, err
		}
	}
	return nil, nil
}
