package dialtree

import "context"

// VisitFunc executes one node visit: the node's handler applied to the
// current state, yielding the next state.
type VisitFunc func(ctx context.Context, node *Node, state any) (any, error)

// Middleware wraps a VisitFunc and returns a new VisitFunc with
// additional behavior. It is applied in a chain (outermost first) using
// ChainMiddlewares.
type Middleware func(VisitFunc) VisitFunc

// ChainMiddlewares composes middlewares into one, applying them in order.
// The first middleware becomes the outermost wrapper.
func ChainMiddlewares(mws ...Middleware) Middleware {
	return func(next VisitFunc) VisitFunc {
		h := next
		for i := len(mws) - 1; i >= 0; i-- { // apply in reverse to make mws[0] outermost
			h = mws[i](h)
		}
		return h
	}
}
