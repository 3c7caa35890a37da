// Package redis opens go-redis clients for the remote session store.
//
// Settings come from a Config, typically loaded from REDIS_* environment
// variables with pkg/config. Connect pings the server and retries a few
// times before giving up, so a service started alongside Redis does not
// fail on the first refused connection.
//
//	cfg := config.MustLoad[redis.Config]()
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//
//	provider := session.NewRedisProvider(client)
//	checks := health.Checks{"redis": redis.Healthcheck(client)}
//	app.Run(":8080", dispatch.ShutdownHook(redis.Shutdown(client)))
package redis
