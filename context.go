package dialtree

import "context"

// ctxConversationKey is an unexported type for keys defined in this package.
type ctxConversationKey struct{}

// NewConversationContext returns a new Context that carries the
// conversation value. Communicate installs it before the first node
// visit, so middleware sees it on every call.
func NewConversationContext(ctx context.Context, conversation *Conversation) context.Context {
	return context.WithValue(ctx, ctxConversationKey{}, conversation)
}

// FromConversationContext retrieves the Conversation from the context,
// if present.
func FromConversationContext(ctx context.Context) (*Conversation, bool) {
	conversation, ok := ctx.Value(ctxConversationKey{}).(*Conversation)
	return conversation, ok
}
