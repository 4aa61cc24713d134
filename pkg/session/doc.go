// Package session provides anonymous, server side sessions used to carry
// journey data between steps.
//
// The token travels in an AES-GCM encrypted cookie (see package cookie).
// Sessions are kept in a MemoryStore by default or in Redis through
// RedisStore. Expiry is the earlier of the idle timeout, extended on
// activity, and the absolute max lifetime.
//
//	cookies, _ := cookie.New([]string{secret})
//	manager, err := session.New(session.WithCookieManager(cookies))
//	if err != nil {
//	    return err
//	}
//	defer manager.Close()
//	router.Use(manager.Middleware)
package session
