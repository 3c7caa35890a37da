// Package dispatch is a small framework that routes HTTP requests to views
// by regular expression and runs a pre/post middleware chain around them.
//
// A view is a compiled pattern, an optional set of methods and a handler.
// The first view whose pattern matches the whole path wins and its named
// groups become path parameters. Handlers and middlewares work on a
// transport-independent [Request] and return a [Response]; the App adapts
// both to net/http.
//
// # Quick Start
//
//	app := dispatch.New(
//	    dispatch.WithLogger(log),
//	    dispatch.WithRoute(`/`, []string{"GET"}, index),
//	    dispatch.WithRoute(`/users/(?P<id>\d+)`, []string{"GET"}, showUser),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
//	func showUser(r *dispatch.Request, c *dispatch.Context) (*dispatch.Response, error) {
//	    id := dispatch.ParamAs[int64](c, "id")
//	    if id == 0 {
//	        return nil, dispatch.ErrNotFound("user not found")
//	    }
//	    return dispatch.OK(map[string]any{"id": id})
//	}
//
// A nil response with a nil error becomes 204 No Content.
//
// # Middleware
//
// Middlewares have a pre hook that runs before routing and may answer the
// request itself, and a post hook that runs after a successful handler
// and may replace its response. Both phases run in registration order.
//
//	dispatch.WithMiddleware(dispatch.MiddlewareFuncs{
//	    Pre: func(r *dispatch.Request, c *dispatch.Context) (*dispatch.Response, error) {
//	        if r.Header.Get("Authorization") == "" {
//	            return nil, dispatch.ErrUnauthorized("login required")
//	        }
//	        return nil, nil
//	    },
//	})
//
// The middlewares package provides Session, RequestID, CORS and Timeout.
//
// # Sessions
//
// One session provider per app opens and saves [Session] documents. The
// session package ships a remote provider over a [SessionStore] (Redis,
// Postgres or memory) and signed or encrypted cookie providers.
//
//	provider := session.NewRedisProvider(client)
//	app := dispatch.New(
//	    dispatch.WithSessionProvider(provider),
//	    dispatch.WithMiddleware(middlewares.Session()),
//	)
//
// # Shared State
//
// Any value passed to WithState is available to every request:
//
//	pool, _ := db.Connect(ctx, cfg)
//	app := dispatch.New(dispatch.WithState(pool))
//
//	func handler(r *dispatch.Request, c *dispatch.Context) (*dispatch.Response, error) {
//	    pool, err := dispatch.State[*pgxpool.Pool](c)
//	    ...
//	}
//
// # Errors
//
// Failures reach the [ErrorHandler] wrapped with [ErrMiddlewareFailure] or
// [ErrHandlerFailure]; [Cause] returns the original error. Panics arrive
// as [PanicError]. [DefaultErrorHandler] answers [HTTPError] with its code
// and message, and anything else with 500 "Error: <cause>".
//
// # Server
//
// App.Run serves the app behind a chi router that adds /health/live and
// /health/ready, and shuts down gracefully on SIGINT or SIGTERM:
//
//	app.Run(":8080",
//	    dispatch.ReadinessCheck("redis", redis.Healthcheck(client)),
//	    dispatch.ShutdownHook(redis.Shutdown(client)),
//	    dispatch.HTTPMiddleware(middlewares.AccessLog(log)),
//	)
package dispatch
