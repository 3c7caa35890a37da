// Package logger builds slog loggers for services using dispatch.
//
// New returns a JSON or text logger at the configured level. Context
// extractors run on every record, so request-scoped values such as the
// request ID end up in each line logged with a request context:
//
//	cfg := config.MustLoad[logger.Config]()
//	log := logger.New(cfg, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//	// {"level":"INFO","msg":"request processed","status":200,"request_id":"..."}
//
// Setting SENTRY_DSN fans records out to Sentry as well. Without a DSN, or
// if the SDK fails to initialize, logging continues to stdout only.
//
// NewNope returns a logger that discards everything; it is the default for
// apps that are not given one.
package logger
