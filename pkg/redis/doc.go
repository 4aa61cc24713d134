// Package redis connects to Redis with retries and offers Storage, a small
// prefixed key-value wrapper used as the backend of the redis session store.
//
//	client, err := redis.Connect(ctx, redis.DefaultConfig("redis://localhost:6379/0"))
//	if err != nil {
//	    return err
//	}
//	storage := redis.NewStorage(client, "session:")
package redis
