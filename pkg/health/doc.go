// Package health serves liveness and readiness probes.
//
// Readiness checks are plain func(context.Context) error closures, run
// concurrently with a shared timeout:
//
//	r := chi.NewRouter()
//	health.Mount(r, health.Checks{
//		"redis":    redis.Healthcheck(client),
//		"postgres": db.Healthcheck(pool),
//	}, health.WithTimeout(3*time.Second))
//
// Responses are plain text ("OK" or "Service Unavailable") unless the
// client asks for JSON with ?format=json or an Accept header.
package health
