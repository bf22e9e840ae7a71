package topology

import (
	"testing"

	"github.com/storageconsole/zpool-topology/pkg/models"
)

func device(name string, state models.VdevState) *models.Node {
	return &models.Node{
		Name:       name,
		Kind:       models.KindDevice,
		GroupType:  models.GroupDisk,
		State:      state,
		DevicePath: "/dev/" + name,
	}
}

func group(name string, groupType models.GroupType, children ...*models.Node) *models.Node {
	return &models.Node{
		Name:      name,
		Kind:      models.KindGroup,
		GroupType: groupType,
		State:     models.StateOnline,
		Children:  children,
	}
}

func pool(name string, children ...*models.Node) *models.Node {
	return &models.Node{
		Name:     name,
		Kind:     models.KindPool,
		State:    models.StateOnline,
		Children: children,
	}
}

func TestFindRoot(t *testing.T) {
	tree := pool("tank", group("mirror-0", models.GroupMirror))
	if FindRoot(tree) != tree {
		t.Error("FindRoot() did not return the pool node")
	}
	if FindRoot(nil) != nil {
		t.Error("FindRoot(nil) != nil")
	}
	if FindRoot(device("sda", models.StateOnline)) != nil {
		t.Error("FindRoot() on a device returned non-nil")
	}
}

func TestFindNodeAndParent(t *testing.T) {
	mirror := group("mirror-0", models.GroupMirror,
		device("sda", models.StateOnline),
		device("sdb", models.StateOnline))
	tree := pool("tank", mirror)

	if got := FindNode(tree, "sdb", models.KindDevice); got == nil || got.Name != "sdb" {
		t.Errorf("FindNode(sdb) = %v, want the sdb device", got)
	}
	if got := FindNode(tree, "sdb", models.KindGroup); got != nil {
		t.Errorf("FindNode(sdb, group) = %v, want nil (kind mismatch)", got)
	}
	if got := FindParent(tree, "sda", models.KindDevice); got != mirror {
		t.Errorf("FindParent(sda) = %v, want mirror-0", got)
	}
	if got := FindParent(tree, "mirror-0", models.KindGroup); got != tree {
		t.Errorf("FindParent(mirror-0) = %v, want root", got)
	}
	if got := FindParent(tree, "tank", models.KindPool); got != nil {
		t.Errorf("FindParent(root) = %v, want nil", got)
	}
	if got := FindParent(tree, "missing", models.KindDevice); got != nil {
		t.Errorf("FindParent(missing) = %v, want nil", got)
	}
}

func TestTopLevelGroups(t *testing.T) {
	tree := pool("tank",
		group("mirror-0", models.GroupMirror),
		group("logs", models.GroupLog))
	groups := TopLevelGroups(tree)
	if len(groups) != 2 {
		t.Fatalf("TopLevelGroups() returned %d groups, want 2", len(groups))
	}
	if TopLevelGroups(nil) != nil {
		t.Error("TopLevelGroups(nil) != nil")
	}
}

func TestDataGroupCount(t *testing.T) {
	tree := pool("tank",
		group("mirror-0", models.GroupMirror),
		group("raidz1-0", models.GroupRaidz1),
		group("logs", models.GroupLog),
		group("cache", models.GroupCache),
		group("spares", models.GroupSpare),
		group("special", models.GroupSpecial))

	// special counts as data; log, cache and spare do not
	if got := DataGroupCount(tree); got != 3 {
		t.Errorf("DataGroupCount() = %d, want 3", got)
	}
}

func TestSiblingDeviceCount(t *testing.T) {
	mirror := group("mirror-0", models.GroupMirror,
		device("sda", models.StateOnline),
		device("sdb", models.StateOnline),
		group("replacing-0", models.GroupUnknown))

	// only device children count
	if got := SiblingDeviceCount(mirror); got != 2 {
		t.Errorf("SiblingDeviceCount() = %d, want 2", got)
	}
	if got := SiblingDeviceCount(nil); got != 0 {
		t.Errorf("SiblingDeviceCount(nil) = %d, want 0", got)
	}
}
