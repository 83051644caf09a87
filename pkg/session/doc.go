// Package session provides server-side sessions bound to the browser by a
// signed cookie.
//
// A Manager ties a Store to a Transport. Stores persist sessions by token;
// MemoryStore keeps them in process with a janitor goroutine and RedisStore
// keeps them as JSON values that expire with the session. The default
// transport signs the token into an HttpOnly cookie through pkg/cookie.
//
//	cookies, _ := cookie.New([]string{secret})
//	sessions, err := session.New(
//		session.WithConfig(cfg),
//		session.WithCookieManager(cookies),
//		session.WithStore(session.NewRedisStore(client, "portalsso:")),
//	)
//	if err != nil {
//		return err
//	}
//	defer sessions.Close()
//
//	r.Use(sessions.Middleware)
//
// Authenticate rotates the session token on every sign-in. Anonymous and
// authenticated sessions have separate idle and absolute lifetimes; the
// effective expiry is the earlier of the two. Activity timestamps are written
// by a background worker and dropped when its queue is full.
package session
