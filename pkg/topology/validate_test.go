package topology

import (
	"strings"
	"testing"

	"github.com/storageconsole/zpool-topology/pkg/models"
)

func spec(groupType models.GroupType, devices ...string) models.RedundancyGroupSpec {
	return models.RedundancyGroupSpec{Type: groupType, Devices: devices}
}

func TestValidateSpecs_Empty(t *testing.T) {
	err := ValidateSpecs(nil)
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("ValidateSpecs(nil) = %v, want empty-topology failure", err)
	}
}

func TestValidateSpecs_Minimums(t *testing.T) {
	tests := []struct {
		name    string
		specs   []models.RedundancyGroupSpec
		wantErr bool
	}{
		{"one-device mirror", []models.RedundancyGroupSpec{spec(models.GroupMirror, "d1")}, true},
		{"two-device mirror", []models.RedundancyGroupSpec{spec(models.GroupMirror, "d1", "d2")}, false},
		{"two-device raidz1", []models.RedundancyGroupSpec{spec(models.GroupRaidz1, "d1", "d2")}, true},
		{"three-device raidz1", []models.RedundancyGroupSpec{spec(models.GroupRaidz1, "d1", "d2", "d3")}, false},
		{"three-device raidz2", []models.RedundancyGroupSpec{spec(models.GroupRaidz2, "d1", "d2", "d3")}, true},
		{"four-device raidz2", []models.RedundancyGroupSpec{spec(models.GroupRaidz2, "d1", "d2", "d3", "d4")}, false},
		{"four-device raidz3", []models.RedundancyGroupSpec{spec(models.GroupRaidz3, "d1", "d2", "d3", "d4")}, true},
		{"five-device raidz3", []models.RedundancyGroupSpec{spec(models.GroupRaidz3, "d1", "d2", "d3", "d4", "d5")}, false},
		{"single disk", []models.RedundancyGroupSpec{spec(models.GroupDisk, "d1")}, false},
		{"empty disk group", []models.RedundancyGroupSpec{spec(models.GroupDisk)}, true},
		{"single-device draid", []models.RedundancyGroupSpec{spec(models.GroupDraid, "d1")}, false},
	}

	for _, tt := range tests {
		err := ValidateSpecs(tt.specs)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: ValidateSpecs() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateSpecs_MinimumErrorNamesTypeAndCounts(t *testing.T) {
	err := ValidateSpecs([]models.RedundancyGroupSpec{spec(models.GroupRaidz2, "d1", "d2")})
	if err == nil {
		t.Fatal("ValidateSpecs() = nil, want minimum violation")
	}
	msg := err.Error()
	for _, want := range []string{"raidz2", "4", "2"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestValidateSpecs_RequiresDataGroup(t *testing.T) {
	specs := []models.RedundancyGroupSpec{
		spec(models.GroupLog, "d1"),
		spec(models.GroupCache, "d2"),
		spec(models.GroupSpare, "d3"),
	}
	err := ValidateSpecs(specs)
	if err == nil || !strings.Contains(err.Error(), "data group") {
		t.Errorf("ValidateSpecs() = %v, want data-group failure", err)
	}

	// a special group counts as data
	specs = append(specs, spec(models.GroupSpecial, "d4"))
	if err := ValidateSpecs(specs); err != nil {
		t.Errorf("ValidateSpecs() with special group = %v, want nil", err)
	}
}

func TestValidateSpecs_DuplicateDevices(t *testing.T) {
	specs := []models.RedundancyGroupSpec{
		spec(models.GroupMirror, "d1", "d2"),
		spec(models.GroupMirror, "d2", "d3"),
	}
	err := ValidateSpecs(specs)
	if err == nil || !strings.Contains(err.Error(), "d2") {
		t.Errorf("ValidateSpecs() = %v, want duplicate-device failure naming d2", err)
	}
}

// The same order every time: the empty check wins over minimums, minimums
// win over the data-group rule.
func TestValidateSpecs_FirstFailureWins(t *testing.T) {
	specs := []models.RedundancyGroupSpec{
		spec(models.GroupLog),
	}
	err := ValidateSpecs(specs)
	if err == nil || !strings.Contains(err.Error(), "at least 1") {
		t.Errorf("ValidateSpecs() = %v, want minimum failure before data-group failure", err)
	}
}

func TestMinimumDevices(t *testing.T) {
	tests := []struct {
		groupType models.GroupType
		want      int
	}{
		{models.GroupMirror, 2},
		{models.GroupRaidz1, 3},
		{models.GroupRaidz2, 4},
		{models.GroupRaidz3, 5},
		{models.GroupDisk, 1},
		{models.GroupDraid, 1},
		{models.GroupLog, 1},
		{models.GroupSpecial, 1},
	}
	for _, tt := range tests {
		if got := MinimumDevices(tt.groupType); got != tt.want {
			t.Errorf("MinimumDevices(%s) = %d, want %d", tt.groupType, got, tt.want)
		}
	}
}
