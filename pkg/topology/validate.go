package topology

import (
	"fmt"

	"github.com/storageconsole/zpool-topology/pkg/models"
)

// groupMinimums is the canonical minimum device count per group type.
// Types not listed need at least one device.
var groupMinimums = map[models.GroupType]int{
	models.GroupMirror: 2,
	models.GroupRaidz1: 3,
	models.GroupRaidz2: 4,
	models.GroupRaidz3: 5,
}

// MinimumDevices returns the minimum device count for a group type
func MinimumDevices(t models.GroupType) int {
	if min, ok := groupMinimums[t]; ok {
		return min
	}
	return 1
}

// ValidateSpecs checks a drafted redundancy-group layout against the
// structural rules for pools. The same rules apply whether the draft
// creates a new pool or adds capacity to an existing one. Rules are checked
// in order and the first failure wins; a nil return means the draft is
// structurally sound.
func ValidateSpecs(specs []models.RedundancyGroupSpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("topology is empty")
	}

	for _, spec := range specs {
		min := MinimumDevices(spec.Type)
		if len(spec.Devices) < min {
			return fmt.Errorf("%s group requires at least %d device(s), got %d",
				spec.Type, min, len(spec.Devices))
		}
	}

	hasData := false
	for _, spec := range specs {
		if spec.Type.IsData() {
			hasData = true
			break
		}
	}
	if !hasData {
		return fmt.Errorf("pool must contain at least one data group")
	}

	seen := make(map[string]bool)
	for _, spec := range specs {
		for _, device := range spec.Devices {
			if seen[device] {
				return fmt.Errorf("device %s is used more than once", device)
			}
			seen[device] = true
		}
	}

	return nil
}
