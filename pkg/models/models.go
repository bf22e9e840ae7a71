package models

// VdevKind classifies a node in the pool topology tree
type VdevKind string

const (
	KindPool   VdevKind = "pool"
	KindGroup  VdevKind = "group"
	KindDevice VdevKind = "device"
)

// GroupType is the redundancy role of a group (or of a top-level bare
// device standing in as a single-disk data group)
type GroupType string

const (
	GroupDisk    GroupType = "disk"
	GroupMirror  GroupType = "mirror"
	GroupRaidz1  GroupType = "raidz1"
	GroupRaidz2  GroupType = "raidz2"
	GroupRaidz3  GroupType = "raidz3"
	GroupDraid   GroupType = "draid"
	GroupLog     GroupType = "log"
	GroupCache   GroupType = "cache"
	GroupSpare   GroupType = "spare"
	GroupSpecial GroupType = "special"
	GroupUnknown GroupType = "unknown"
)

// IsData reports whether the group type contributes to primary pool capacity
// (log, cache and spare groups do not)
func (g GroupType) IsData() bool {
	switch g {
	case GroupLog, GroupCache, GroupSpare:
		return false
	}
	return true
}

// VdevState is the health state reported by zpool for a vdev
type VdevState string

const (
	StateOnline   VdevState = "ONLINE"
	StateDegraded VdevState = "DEGRADED"
	StateFaulted  VdevState = "FAULTED"
	StateUnavail  VdevState = "UNAVAIL"
	StateRemoved  VdevState = "REMOVED"
	StateOffline  VdevState = "OFFLINE"
	StateUnknown  VdevState = "UNKNOWN"
)

// ErrorCounts holds the per-vdev error counters from zpool status
type ErrorCounts struct {
	Read     int
	Write    int
	Checksum int
}

// Node represents one element of the pool topology: the pool root, a
// redundancy group, or a leaf storage device. Identity is the Name, which is
// unique among siblings but not globally.
type Node struct {
	Name       string
	Kind       VdevKind
	GroupType  GroupType
	State      VdevState
	DevicePath string // set on devices and single-disk groups only
	Errors     ErrorCounts
	Children   []*Node
}

// AddChild appends a child node, preserving table order
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// Walk visits n and every descendant in depth-first order. Traversal stops
// early when fn returns false.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(node *Node, depth int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for _, child := range n.Children {
		if !child.walk(depth+1, fn) {
			return false
		}
	}
	return true
}

// Equal reports whether two trees have the same shape and field values.
// Trees are rebuilt wholesale on every refresh, so structural equality is
// the only meaningful comparison between parses.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Name != other.Name || n.Kind != other.Kind || n.GroupType != other.GroupType ||
		n.State != other.State || n.DevicePath != other.DevicePath || n.Errors != other.Errors {
		return false
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// PoolReport bundles the topology root with the pool-level status fields
// extracted from the same zpool status output
type PoolReport struct {
	Name        string
	State       VdevState
	StatusText  string
	ActionText  string
	ScanSummary string
	ErrorCount  string
	Root        *Node
}

// RedundancyGroupSpec is one entry of a user-drafted pool layout: a group
// type plus the device paths that should form the group. Used both for pool
// creation and for adding capacity to an existing pool.
type RedundancyGroupSpec struct {
	Type    GroupType
	Devices []string
}

// Action is a structural pool-editing operation
type Action string

const (
	ActionAttach      Action = "attach"
	ActionDetach      Action = "detach"
	ActionReplace     Action = "replace"
	ActionOffline     Action = "offline"
	ActionOnline      Action = "online"
	ActionRemoveGroup Action = "remove"
	ActionSplit       Action = "split"
	ActionAddGroup    Action = "add"
)

// ActionSet is the set of structural actions currently offerable for a
// selection
type ActionSet map[Action]bool

// Has reports whether the action is in the set
func (s ActionSet) Has(a Action) bool {
	return s[a]
}

// List returns the actions in a fixed display order
func (s ActionSet) List() []Action {
	order := []Action{
		ActionAttach, ActionDetach, ActionReplace, ActionOffline,
		ActionOnline, ActionRemoveGroup, ActionSplit, ActionAddGroup,
	}
	var actions []Action
	for _, a := range order {
		if s[a] {
			actions = append(actions, a)
		}
	}
	return actions
}
