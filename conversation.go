package dialtree

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	backLabel = "Return to previous menu"
	exitLabel = "Exit"
)

// PromptFunc renders the choice prompt shown when a node's children are
// enumerated. labels already includes the synthetic back and exit
// entries, in display order.
type PromptFunc func(node *Node, labels []string) string

// NumberedPrompt is the default prompt renderer: a selection header
// followed by one numbered line per label.
func NumberedPrompt(node *Node, labels []string) string {
	var b strings.Builder
	b.WriteString("Please select an option:")
	for i, label := range labels {
		fmt.Fprintf(&b, "\n%d. %s", i+1, label)
	}
	return b.String()
}

// ConversationOption configures a single Communicate run.
type ConversationOption func(*Conversation)

// WithResolver replaces the resolver used to match utterances to labels.
func WithResolver(r *Resolver) ConversationOption {
	return func(c *Conversation) {
		c.resolver = r
	}
}

// WithPrompt replaces the choice prompt renderer.
func WithPrompt(p PromptFunc) ConversationOption {
	return func(c *Conversation) {
		c.prompt = p
	}
}

// WithInvalidMessage replaces the message told to the user when their
// input does not resolve to any choice.
func WithInvalidMessage(message string) ConversationOption {
	return func(c *Conversation) {
		c.invalid = message
	}
}

// WithMiddleware applies middleware around every node visit, outermost
// first.
func WithMiddleware(ms ...Middleware) ConversationOption {
	return func(c *Conversation) {
		c.middlewares = append(c.middlewares, ms...)
	}
}

// Conversation is the transient cursor of one Communicate run: the
// current node, the current state, and the ask/tell collaborators. Each
// run gets its own Conversation; the tree itself is shared read-only, so
// any number of conversations may traverse it at once.
type Conversation struct {
	id          string
	node        *Node
	state       any
	ask         Ask
	tell        Tell
	resolver    *Resolver
	prompt      PromptFunc
	invalid     string
	middlewares []Middleware
	visit       VisitFunc
	flow        *Flow

	disconnected bool
}

// ID returns the conversation's unique identifier, generated per run.
func (c *Conversation) ID() string {
	return c.id
}

// Node returns the node the conversation is currently at.
func (c *Conversation) Node() *Node {
	return c.node
}

// Communicate drives one conversation over the tree rooted at n: it
// invokes each reached node's handler, threads the state value through,
// asks the user to choose among a node's children, and descends until a
// node without children is reached, a handler hangs up, or ask reports
// that the user is gone. It blocks on ask between steps and returns the
// final state. Handler errors abort the loop and propagate untranslated.
func (n *Node) Communicate(ctx context.Context, state any, ask Ask, tell Tell, opts ...ConversationOption) (any, error) {
	c := newConversation(n, state, ask, tell, opts...)
	return c.run(ctx)
}

func newConversation(root *Node, state any, ask Ask, tell Tell, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		id:       uuid.NewString(),
		node:     root,
		state:    state,
		tell:     tell,
		resolver: NewResolver(),
		prompt:   NumberedPrompt,
		invalid:  "Invalid option, please try again.",
	}
	c.ask = c.watch(ask)
	for _, opt := range opts {
		opt(c)
	}
	c.visit = ChainMiddlewares(c.middlewares...)(c.invokeNode)
	return c
}

// watch wraps the caller's ask so a disconnect is observed no matter
// where it happens, including inside a handler. A nil ask behaves as an
// immediately disconnected user.
func (c *Conversation) watch(ask Ask) Ask {
	if ask == nil {
		return func(string) (string, bool) {
			c.disconnected = true
			return "", false
		}
	}
	return func(prompt string) (string, bool) {
		answer, ok := ask(prompt)
		if !ok {
			c.disconnected = true
		}
		return answer, ok
	}
}

// invokeNode is the innermost VisitFunc: it runs the node's handler per
// its call plan. Nodes without a handler pass the state through.
func (c *Conversation) invokeNode(ctx context.Context, node *Node, state any) (any, error) {
	if node.spec == nil {
		return state, nil
	}
	return node.spec.invoke(ctx, state, c.ask, c.tell, c.flow)
}

// run is the conversation state machine. At each node it invokes the
// handler, honors any flow redirect, terminates at nodes without
// children, and otherwise asks the user to choose a child.
func (c *Conversation) run(ctx context.Context) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = NewConversationContext(ctx, c)
	for {
		if err := ctx.Err(); err != nil {
			return c.state, err
		}
		c.flow = &Flow{}
		state, err := c.visit(ctx, c.node, c.state)
		if err != nil {
			return c.state, err
		}
		c.state = state
		switch {
		case c.flow.hangup || c.disconnected:
			return c.state, nil
		case c.flow.next != nil:
			c.node = c.flow.next
			continue
		case len(c.node.children) == 0:
			return c.state, nil
		}
		next, err := c.choose(ctx)
		if err != nil {
			return c.state, err
		}
		if next == nil {
			return c.state, nil
		}
		c.node = next
	}
}

// choice is one selectable entry at a node: a child, the synthetic back
// entry (parent), or the synthetic exit entry (nil node).
type choice struct {
	label string
	node  *Node
}

func (c *Conversation) choices() []choice {
	node := c.node
	entries := make([]choice, 0, len(node.children)+2)
	for _, child := range node.children {
		entries = append(entries, choice{label: child.label, node: child})
	}
	if node.parent != nil {
		entries = append(entries, choice{label: backLabel, node: node.parent})
	}
	if node.parent == nil || node.includeExit {
		entries = append(entries, choice{label: exitLabel})
	}
	return entries
}

// choose prompts until the user's input resolves to an entry or the user
// disconnects. It returns the next node, or nil when the conversation
// should terminate (disconnect or the exit entry).
func (c *Conversation) choose(ctx context.Context) (*Node, error) {
	entries := c.choices()
	labels := make([]string, len(entries))
	for i, entry := range entries {
		labels[i] = entry.label
	}
	prompt := c.prompt(c.node, labels)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		answer, ok := c.ask(prompt)
		if !ok {
			return nil, nil
		}
		if label, ok := c.resolver.Resolve(answer, labels); ok {
			for _, entry := range entries {
				if entry.label == label {
					return entry.node, nil
				}
			}
		}
		if c.tell != nil {
			c.tell(c.invalid)
		}
	}
}
