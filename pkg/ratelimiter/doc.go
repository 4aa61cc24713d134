// Package ratelimiter throttles form submissions with a token bucket per
// client.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//	    Capacity:       10,
//	    RefillRate:     10,
//	    RefillInterval: time.Minute,
//	})
//	if err != nil {
//	    return err
//	}
//	router.Use(ratelimiter.Middleware(bucket, ratelimiter.ByClientIP))
//
// Only unsafe methods (POST, PUT, PATCH, DELETE) consume tokens unless
// WithMethods says otherwise. Rejected requests are reported to the
// errorpage handler as errorpage.ErrTooManyRequests, with a Retry-After
// header.
package ratelimiter
