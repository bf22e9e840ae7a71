// Package session holds the per-user editing state of the topology view.
// All state lives on the Session value itself so that a multi-session host
// can keep one per user without cross-request interference.
package session

import (
	"github.com/storageconsole/zpool-topology/pkg/models"
	"github.com/storageconsole/zpool-topology/pkg/topology"
	"k8s.io/klog/v2"
)

// Selection identifies a node by identity and kind. It deliberately holds no
// Node pointer: trees are replaced wholesale on every refresh and the
// selection must be re-resolved against whatever tree is current.
type Selection struct {
	Name string
	Kind models.VdevKind
}

// Session is the UI-facing editing state: the pool being viewed, the last
// rendered view name, and the current selection
type Session struct {
	PoolName string
	LastView string

	report    *models.PoolReport
	selection *Selection
}

// New returns an empty session
func New() *Session {
	return &Session{}
}

// Load replaces the session's tree with a freshly parsed report. The
// existing selection is revalidated: if it no longer resolves in the new
// tree it is dropped.
func (s *Session) Load(report *models.PoolReport) {
	s.report = report
	if report != nil {
		s.PoolName = report.Name
	}
	if s.selection != nil && s.Selected() == nil {
		klog.V(1).Infof("Selection %s/%s no longer present after refresh, clearing",
			s.selection.Kind, s.selection.Name)
		s.selection = nil
	}
}

// Tree returns the current topology root, or nil when no report is loaded
func (s *Session) Tree() *models.Node {
	if s.report == nil {
		return nil
	}
	return s.report.Root
}

// Report returns the current pool report
func (s *Session) Report() *models.PoolReport {
	return s.report
}

// Select records a new selection and returns the legal actions for it
func (s *Session) Select(name string, kind models.VdevKind) models.ActionSet {
	s.selection = &Selection{Name: name, Kind: kind}
	return s.LegalActions()
}

// ClearSelection drops the current selection
func (s *Session) ClearSelection() {
	s.selection = nil
}

// Selected resolves the current selection in the current tree, or nil
func (s *Session) Selected() *models.Node {
	if s.selection == nil {
		return nil
	}
	return topology.FindNode(s.Tree(), s.selection.Name, s.selection.Kind)
}

// LegalActions recomputes the action set for the current selection against
// the current tree
func (s *Session) LegalActions() models.ActionSet {
	var selected *models.Node
	if s.selection != nil {
		selected = &models.Node{Name: s.selection.Name, Kind: s.selection.Kind}
	}
	return topology.LegalActions(s.Tree(), selected)
}
