package session

import (
	"testing"

	"github.com/storageconsole/zpool-topology/pkg/models"
)

func mirrorReport(devices ...string) *models.PoolReport {
	mirror := &models.Node{Name: "mirror-0", Kind: models.KindGroup, GroupType: models.GroupMirror, State: models.StateOnline}
	for _, name := range devices {
		mirror.AddChild(&models.Node{
			Name:       name,
			Kind:       models.KindDevice,
			GroupType:  models.GroupDisk,
			State:      models.StateOnline,
			DevicePath: "/dev/" + name,
		})
	}
	root := &models.Node{Name: "tank", Kind: models.KindPool, State: models.StateOnline}
	root.AddChild(mirror)
	return &models.PoolReport{Name: "tank", State: models.StateOnline, Root: root}
}

func TestSessionSelect(t *testing.T) {
	sess := New()
	sess.Load(mirrorReport("sda", "sdb"))

	if sess.PoolName != "tank" {
		t.Errorf("PoolName = %v, want tank", sess.PoolName)
	}

	actions := sess.Select("mirror-0", models.KindGroup)
	if sess.Selected() == nil {
		t.Fatal("Selected() = nil after selecting an existing group")
	}
	if !actions.Has(models.ActionAddGroup) {
		t.Error("AddGroup missing from action set")
	}
}

// The selection survives a refresh only if the node still exists in the new
// tree; it is re-resolved, never kept as a pointer.
func TestSessionRevalidatesSelectionAcrossReload(t *testing.T) {
	sess := New()
	sess.Load(mirrorReport("sda", "sdb"))
	sess.Select("sdb", models.KindDevice)

	before := sess.Selected()
	if before == nil {
		t.Fatal("sdb not selectable in first tree")
	}

	sess.Load(mirrorReport("sda", "sdb", "sdc"))
	after := sess.Selected()
	if after == nil {
		t.Fatal("selection dropped although sdb is still present")
	}
	if after == before {
		t.Error("Selected() returned a node from the discarded tree")
	}

	// the third device makes detach legal now
	if !sess.LegalActions().Has(models.ActionDetach) {
		t.Error("Detach missing after mirror grew to three devices")
	}
}

func TestSessionDropsVanishedSelection(t *testing.T) {
	sess := New()
	sess.Load(mirrorReport("sda", "sdb"))
	sess.Select("sdb", models.KindDevice)

	sess.Load(mirrorReport("sda"))
	if sess.Selected() != nil {
		t.Error("Selected() resolved a node that is gone from the new tree")
	}

	actions := sess.LegalActions()
	if !actions.Has(models.ActionAddGroup) || len(actions) != 1 {
		t.Errorf("actions after vanished selection = %v, want only add", actions.List())
	}
}

func TestSessionWithoutReport(t *testing.T) {
	sess := New()
	if sess.Tree() != nil {
		t.Error("Tree() != nil on empty session")
	}
	actions := sess.Select("sda", models.KindDevice)
	if len(actions) != 0 {
		t.Errorf("actions without a tree = %v, want empty", actions.List())
	}
}

func TestSessionClearSelection(t *testing.T) {
	sess := New()
	sess.Load(mirrorReport("sda", "sdb"))
	sess.Select("sda", models.KindDevice)
	sess.ClearSelection()
	if sess.Selected() != nil {
		t.Error("Selected() != nil after ClearSelection")
	}
}
