package middleware

import (
	"net/url"
	"sync"
	"time"

	"github.com/alexander-sdk/core/transport"
)

// DiscoverFunc looks up the dynamic endpoint host for an operation,
// e.g. via a service's own DescribeEndpoints call.
type DiscoverFunc func(ctx Context) (host string, ttl time.Duration, err error)

type discoveryEntry struct {
	host    string
	expires time.Time
}

// EndpointDiscoveryMiddleware caches a per-operation endpoint lookup and
// rewrites the request host to the discovered endpoint while the cache
// entry remains valid (spec.md §4.5: "cached per-operation endpoint
// lookup").
func EndpointDiscoveryMiddleware(discover DiscoverFunc) Middleware {
	var mu sync.Mutex
	cache := map[string]discoveryEntry{}

	return Middleware{
		Name: "EndpointDiscovery",
		OnRequest: func(req transport.Request, ctx Context) (transport.Request, error) {
			key := ctx.ServiceID + ":" + ctx.OperationID

			mu.Lock()
			entry, ok := cache[key]
			mu.Unlock()

			if !ok || time.Now().After(entry.expires) {
				host, ttl, err := discover(ctx)
				if err != nil {
					return req, err
				}
				entry = discoveryEntry{host: host, expires: time.Now().Add(ttl)}
				mu.Lock()
				cache[key] = entry
				mu.Unlock()
			}

			u, err := url.Parse(req.URL)
			if err != nil {
				return req, err
			}
			u.Host = entry.host
			req.URL = u.String()
			return req, nil
		},
	}
}
