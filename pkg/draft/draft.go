// Package draft loads user-authored redundancy-group layouts from YAML
// files, for pool creation and for capacity additions.
package draft

import (
	"fmt"
	"os"

	"github.com/storageconsole/zpool-topology/pkg/models"
	"github.com/storageconsole/zpool-topology/pkg/parser"
	"gopkg.in/yaml.v3"
)

// groupDraft is one drafted group as written in the YAML file
type groupDraft struct {
	Type    string   `yaml:"type"`
	Devices []string `yaml:"devices"`
}

// draftFile is the on-disk draft layout
type draftFile struct {
	Groups []groupDraft `yaml:"groups"`
}

// Parse converts YAML draft data into redundancy-group specs. Group type
// keywords use the same vocabulary as the structured status input (mirror,
// raidz1..raidz3, draid, disk, log, cache, spare, special).
func Parse(data []byte) ([]models.RedundancyGroupSpec, error) {
	var file draftFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse draft YAML: %w", err)
	}

	specs := make([]models.RedundancyGroupSpec, 0, len(file.Groups))
	for _, group := range file.Groups {
		if group.Type == "" {
			return nil, fmt.Errorf("draft group is missing a type")
		}
		groupType := parser.ParseGroupType(group.Type)
		if groupType == models.GroupUnknown {
			return nil, fmt.Errorf("unknown group type %q in draft", group.Type)
		}
		specs = append(specs, models.RedundancyGroupSpec{
			Type:    groupType,
			Devices: group.Devices,
		})
	}
	return specs, nil
}

// Load reads and parses a draft file
func Load(path string) ([]models.RedundancyGroupSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}
	return Parse(data)
}
