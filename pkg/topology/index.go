// Package topology provides read-only queries over a parsed pool tree, the
// structural action eligibility rules, and validation of drafted
// redundancy-group layouts.
package topology

import (
	"github.com/storageconsole/zpool-topology/pkg/models"
)

// FindRoot returns the pool root of the tree, or nil when the tree has none
func FindRoot(tree *models.Node) *models.Node {
	if tree == nil || tree.Kind != models.KindPool {
		return nil
	}
	return tree
}

// FindNode locates a node by identity and kind using depth-first search.
// The first structural match wins.
func FindNode(tree *models.Node, name string, kind models.VdevKind) *models.Node {
	if tree == nil {
		return nil
	}
	var match *models.Node
	tree.Walk(func(node *models.Node, depth int) bool {
		if node.Name == name && node.Kind == kind {
			match = node
			return false
		}
		return true
	})
	return match
}

// FindParent returns the parent of the node identified by name and kind, or
// nil when the node is the root or cannot be found. The tree is rescanned
// from the root on every call; at pool scale an index is not worth keeping.
func FindParent(tree *models.Node, name string, kind models.VdevKind) *models.Node {
	if tree == nil {
		return nil
	}
	var parent *models.Node
	var search func(node *models.Node) bool
	search = func(node *models.Node) bool {
		for _, child := range node.Children {
			if child.Name == name && child.Kind == kind {
				parent = node
				return true
			}
			if search(child) {
				return true
			}
		}
		return false
	}
	search(tree)
	return parent
}

// TopLevelGroups returns the direct children of the pool root
func TopLevelGroups(tree *models.Node) []*models.Node {
	root := FindRoot(tree)
	if root == nil {
		return nil
	}
	return root.Children
}

// DataGroupCount counts top-level groups that contribute to primary pool
// capacity, excluding log, cache and spare groups
func DataGroupCount(tree *models.Node) int {
	count := 0
	for _, group := range TopLevelGroups(tree) {
		if group.GroupType.IsData() {
			count++
		}
	}
	return count
}

// SiblingDeviceCount returns the number of device children of a group
func SiblingDeviceCount(group *models.Node) int {
	if group == nil {
		return 0
	}
	count := 0
	for _, child := range group.Children {
		if child.Kind == models.KindDevice {
			count++
		}
	}
	return count
}
