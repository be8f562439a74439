// Package ratelimit counts hits per key in fixed time windows.
//
// A [Store] keeps the counters; [NewMemoryStore] serves a single process and
// [NewRedisStore] shares counters across instances. A [Limiter] applies a
// maximum per window on top of a store:
//
//	l := ratelimit.NewLimiter(store, 60, time.Minute)
//	res, err := l.Allow(ctx, "ip:"+remoteIP)
//	if err != nil {
//	    return err
//	}
//	if !res.Allowed {
//	    // respond 429, retry after res.Reset
//	}
package ratelimit
