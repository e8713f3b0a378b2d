package dialtree

// Kind distinguishes menus from actions. It is descriptive metadata:
// whether a node behaves as a leaf is derived from its children, so an
// action that registers children of its own is traversed like a menu.
type Kind int

const (
	// KindMenu is a point of choice with zero or more children.
	KindMenu Kind = iota
	// KindAction is a node that performs an operation when reached.
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindMenu:
		return "menu"
	case KindAction:
		return "action"
	}
	return "unknown"
}

// MenuOption configures a menu node at registration time.
type MenuOption func(*Node)

// WithExit adds an "Exit" choice to a submenu's prompt. The root menu
// always offers one.
func WithExit(enabled bool) MenuOption {
	return func(n *Node) {
		n.includeExit = enabled
	}
}

// WithExitOnSubmenus makes every submenu registered under this menu offer
// an "Exit" choice. Submenus inherit the setting unless they override it.
func WithExitOnSubmenus(enabled bool) MenuOption {
	return func(n *Node) {
		n.includeExitOnSubmenus = enabled
	}
}

// Node is one addressable point in a menu tree: a menu or an action, its
// bound handler (if any), and its children in registration order. Nodes
// are created through New, Menu and Action and are append-only: children
// may be added until a conversation first traverses the tree, after which
// the tree is treated as read-only and is safe to share across
// simultaneous conversations.
type Node struct {
	label    string
	kind     Kind
	parent   *Node
	children []*Node
	spec     *handlerSpec

	includeExit           bool
	includeExitOnSubmenus bool
}

// New creates the root menu of a new tree.
func New(opts ...MenuOption) *Node {
	n := &Node{kind: KindMenu}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Menu registers a child menu under label and returns it so further
// children can be chained onto it. Registering a label already used by a
// sibling fails with *DuplicateLabelError and leaves the parent unchanged.
func (n *Node) Menu(label string, opts ...MenuOption) (*Node, error) {
	child := &Node{
		label:                 label,
		kind:                  KindMenu,
		includeExit:           n.includeExitOnSubmenus,
		includeExitOnSubmenus: n.includeExitOnSubmenus,
	}
	for _, opt := range opts {
		opt(child)
	}
	if err := n.adopt(child); err != nil {
		return nil, err
	}
	return child, nil
}

// Action registers a child action under label and returns it. The
// returned node accepts further children, in which case it is traversed
// like a menu once its handler has run.
func (n *Node) Action(label string) (*Node, error) {
	child := &Node{
		label:                 label,
		kind:                  KindAction,
		includeExit:           n.includeExitOnSubmenus,
		includeExitOnSubmenus: n.includeExitOnSubmenus,
	}
	if err := n.adopt(child); err != nil {
		return nil, err
	}
	return child, nil
}

func (n *Node) adopt(child *Node) error {
	for _, sibling := range n.children {
		if sibling.label == child.label {
			return &DuplicateLabelError{Label: child.label}
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// Bind attaches handler to the node and classifies its signature into a
// call plan. The handler may declare, in any order, at most one each of
// context.Context, Ask, Tell and *Flow, plus at most one state parameter
// of any other type, which must come before the Ask/Tell/*Flow
// parameters. It may return nothing, a new state, an error, or
// (state, error). A signature outside that surface fails with
// *SignatureError and leaves the node without a handler.
func (n *Node) Bind(handler any) error {
	spec, err := classify(handler)
	if err != nil {
		return err
	}
	n.spec = spec
	return nil
}

// Label returns the label the node was registered under. The root has an
// empty label.
func (n *Node) Label() string {
	return n.label
}

// Kind returns whether the node was registered as a menu or an action.
func (n *Node) Kind() Kind {
	return n.kind
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Labels returns the labels of the node's children in registration order.
func (n *Node) Labels() []string {
	labels := make([]string, len(n.children))
	for i, child := range n.children {
		labels[i] = child.label
	}
	return labels
}

// Child returns the child registered under label, or nil.
func (n *Node) Child(label string) *Node {
	for _, child := range n.children {
		if child.label == label {
			return child
		}
	}
	return nil
}
