// Package kit holds the small transport-agnostic endpoint layer: an
// Endpoint is one operation exposed over HTTP or MCP, middleware wraps it,
// and context keys carry request-scoped values across transports.
package kit

import "context"

// Endpoint is one request/response operation.
type Endpoint func(ctx context.Context, request any) (any, error)

// Middleware decorates an Endpoint.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares; the first argument is the outermost.
func Chain(outer Middleware, others ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(others) - 1; i >= 0; i-- {
			next = others[i](next)
		}
		return outer(next)
	}
}
