// Package middlewares provides built-in middlewares for dispatch applications.
//
// App middlewares implement the pre/post hook interface and run inside
// App.Dispatch. AccessLog is net/http middleware for the transport mux.
//
// # Session
//
// Session loads the request's session through the app's provider before
// the handler and saves it afterwards, attaching the provider's cookie.
// Unchanged sessions are not saved. Call Session.Destroy to log out:
//
//	func logout(r *dispatch.Request, c *dispatch.Context) (*dispatch.Response, error) {
//	    c.Session.Destroy()
//	    return dispatch.NoContent(), nil
//	}
//
//	app := dispatch.New(
//	    dispatch.WithSessionProvider(session.NewRedisProvider(client)),
//	    dispatch.WithMiddleware(middlewares.Session()),
//	)
//
// # Request ID
//
// RequestID assigns an ID to each request, keeping upstream IDs from the
// X-Request-ID and X-Correlation-ID headers. Use RequestIDExtractor with
// logger.New for automatic request_id in all logs:
//
//	log := logger.New(cfg, middlewares.RequestIDExtractor())
//	app := dispatch.New(
//	    dispatch.WithLogger(log),
//	    dispatch.WithMiddleware(middlewares.RequestID()),
//	)
//
// # CORS
//
// CORS answers preflight requests before routing and adds CORS headers to
// every other response, errors and 404s included.
//
//	dispatch.WithMiddleware(
//	    middlewares.CORS(
//	        middlewares.WithAllowOrigins("https://app.example.com"),
//	        middlewares.WithAllowCredentials(),
//	    ),
//	)
//
// # Timeout
//
// Timeout puts a deadline on the request context and reports a
// *TimeoutError when the handler overran it.
//
// # Access log
//
//	app.Run(":8080", dispatch.HTTPMiddleware(middlewares.AccessLog(log)))
//
// # Recommended Middleware Order
//
// The post phase runs in the same order as the pre phase, so list the
// middlewares whose post hook must see the final response last:
//
//	dispatch.WithMiddleware(
//	    middlewares.CORS(),      // First: answer preflight before other processing
//	    middlewares.RequestID(), // Second: assign ID for all subsequent logging
//	    middlewares.Timeout(5*time.Second),
//	    middlewares.Session(),
//	)
package middlewares
