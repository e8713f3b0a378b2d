package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-dialtree/dialtree"
)

// Logging returns a middleware that logs every node visit with the
// conversation ID, node label and kind, visit duration, and outcome.
// A nil logger falls back to slog.Default.
func Logging(logger *slog.Logger) dialtree.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next dialtree.VisitFunc) dialtree.VisitFunc {
		return func(ctx context.Context, node *dialtree.Node, state any) (any, error) {
			start := time.Now()
			var id string
			if conversation, ok := dialtree.FromConversationContext(ctx); ok {
				id = conversation.ID()
			}
			newState, err := next(ctx, node, state)
			if err != nil {
				logger.ErrorContext(ctx, "node visit failed",
					"conversation", id,
					"node", node.Label(),
					"kind", node.Kind().String(),
					"duration", time.Since(start),
					"error", err,
				)
				return newState, err
			}
			logger.DebugContext(ctx, "node visited",
				"conversation", id,
				"node", node.Label(),
				"kind", node.Kind().String(),
				"duration", time.Since(start),
			)
			return newState, nil
		}
	}
}
