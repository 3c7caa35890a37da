// Package session provides per-client session documents and the providers
// that persist them between requests.
//
// A Session is a JSON-like map of values plus a stable ID. Three providers
// implement the same Provider interface:
//
//   - RemoteProvider keeps documents in a Store (RedisStore, PostgresStore,
//     or MemoryStore in tests) under "session:<id>" and gives the client only
//     the ID in the "session_id" cookie.
//   - SignedCookieProvider keeps the whole document in a cookie signed with
//     HMAC-SHA256.
//   - EncryptedCookieProvider keeps the whole document in a cookie sealed with
//     AES-256-GCM.
//
// A request without session evidence always gets a fresh empty session.
// Evidence that does not check out is an error: the remote provider returns
// ErrNotFound for an unknown ID, the cookie providers return ErrTampered for
// a cookie that fails verification.
//
// PostgresStore needs the sessions table; apply Migrations with goose,
// for example through db.Migrate:
//
//	err := db.Migrate(ctx, pool, session.Migrations, "schema_migrations", log)
//
// Usage:
//
//	provider := session.NewRedisProvider(client, session.WithMaxAge(3600))
//
//	s, err := provider.Open(ctx, r.Header)
//	if err != nil {
//		return err
//	}
//	s.Set("visits", 1)
//	c, err := provider.Save(ctx, s)
//	if err != nil {
//		return err
//	}
//	http.SetCookie(w, c)
package session
