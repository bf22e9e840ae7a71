package topology

import (
	"github.com/storageconsole/zpool-topology/pkg/models"
)

// LegalActions computes the set of structural actions currently offerable
// for the selected node. The selection is re-resolved by identity and kind
// against the given tree, never trusted as a reference into it: trees are
// rebuilt wholesale on every refresh and a stale pointer would be
// meaningless. The result is advisory UI state; the command API remains the
// authority on accept/reject.
//
// LegalActions never fails. An absent action simply means "not currently
// offerable".
func LegalActions(tree *models.Node, selected *models.Node) models.ActionSet {
	actions := models.ActionSet{}

	root := FindRoot(tree)
	if root == nil {
		return actions
	}

	// adding a group targets the pool itself, not a selection
	actions[models.ActionAddGroup] = true

	if selected == nil {
		return actions
	}
	sel := FindNode(tree, selected.Name, selected.Kind)
	if sel == nil {
		return actions
	}
	parent := FindParent(tree, sel.Name, sel.Kind)

	if canAttach(sel, parent) {
		actions[models.ActionAttach] = true
	}
	if canDetach(sel, parent) {
		actions[models.ActionDetach] = true
	}
	if isDiskShaped(sel) {
		actions[models.ActionReplace] = true
		if sel.State == models.StateOnline {
			actions[models.ActionOffline] = true
		}
		if sel.State == models.StateOffline {
			actions[models.ActionOnline] = true
		}
	}
	if canRemoveGroup(tree, sel, parent) {
		actions[models.ActionRemoveGroup] = true
	}
	if sel == root && canSplit(tree) {
		actions[models.ActionSplit] = true
	}

	return actions
}

// isDiskShaped reports whether the node is a single disk from the command
// API's point of view: a device, or a disk-type group, carrying a device
// path. These are the valid targets for replace, offline and online.
func isDiskShaped(n *models.Node) bool {
	if n.DevicePath == "" {
		return false
	}
	return n.Kind == models.KindDevice ||
		(n.Kind == models.KindGroup && n.GroupType == models.GroupDisk)
}

// canAttach reports whether a new device may be attached to the selected
// one. Attaching converts a bare disk into a mirror or grows an existing
// non-exclusive redundancy relationship; mirrors, log, cache and spare
// groups are not attach targets.
func canAttach(sel, parent *models.Node) bool {
	if !isDiskShaped(sel) || sel.State != models.StateOnline || parent == nil {
		return false
	}
	if parent.Kind == models.KindPool {
		return true
	}
	switch parent.GroupType {
	case models.GroupMirror, models.GroupLog, models.GroupCache, models.GroupSpare:
		return false
	}
	return true
}

// canDetach reports whether the selected device may be detached from its
// mirror. A two-way mirror offers detach on neither side: removing one half
// would strip the last redundancy, which is exactly the mistake this guard
// exists to prevent.
func canDetach(sel, parent *models.Node) bool {
	if sel.Kind != models.KindDevice || parent == nil {
		return false
	}
	return parent.GroupType == models.GroupMirror && SiblingDeviceCount(parent) > 2
}

// canRemoveGroup reports whether the selected top-level group may be removed
// from the pool. Log, cache and spare groups are always removable; a data
// group only while at least one other data group remains.
func canRemoveGroup(tree, sel, parent *models.Node) bool {
	if sel.Kind != models.KindGroup || parent == nil || parent.Kind != models.KindPool {
		return false
	}
	switch sel.GroupType {
	case models.GroupLog, models.GroupCache, models.GroupSpare:
		return true
	case models.GroupUnknown:
		// unclassified groups get no mutating action
		return false
	}
	return sel.GroupType.IsData() && DataGroupCount(tree) > 1
}

// canSplit reports whether the pool may be split into two. Splitting
// detaches one half of every mirror into a new pool, so it only makes sense
// when the whole pool is symmetrically mirrored.
func canSplit(tree *models.Node) bool {
	groups := TopLevelGroups(tree)
	if len(groups) == 0 {
		return false
	}
	hasData := false
	for _, group := range groups {
		if group.GroupType != models.GroupMirror || SiblingDeviceCount(group) < 2 {
			return false
		}
		if group.GroupType.IsData() {
			hasData = true
		}
	}
	return hasData
}
