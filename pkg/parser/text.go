package parser

import (
	"regexp"
	"strings"

	"github.com/storageconsole/zpool-topology/pkg/models"
	"k8s.io/klog/v2"
)

var (
	mirrorNamePattern = regexp.MustCompile(`^mirror-\d+$`)
	raidzNamePattern  = regexp.MustCompile(`^raidz[123]-\d+$`)
	draidNamePattern  = regexp.MustCompile(`^draid[123]?(:\S+)?-\d+$`)

	// common device naming prefixes seen in zpool status output
	devicePathPattern = regexp.MustCompile(`^(/dev/|sd[a-z]|nvme\d|vd[a-z]|xvd[a-z]|hd[a-z]|ada\d|da\d|gpt/|gptid/|wwn-|ata-|scsi-|nvme-|usb-|dm-name-|md\d|mpath|c\d+t\d+d\d+)`)
)

// classifyGroupName matches a row name against the fixed set of group name
// patterns zpool uses in the config table
func classifyGroupName(name string) (models.GroupType, bool) {
	switch {
	case mirrorNamePattern.MatchString(name):
		return models.GroupMirror, true
	case raidzNamePattern.MatchString(name):
		// raidz1-0, raidz2-1, raidz3-0
		switch name[4] {
		case '2':
			return models.GroupRaidz2, true
		case '3':
			return models.GroupRaidz3, true
		default:
			return models.GroupRaidz1, true
		}
	case draidNamePattern.MatchString(name):
		return models.GroupDraid, true
	case name == "logs":
		return models.GroupLog, true
	case name == "cache":
		return models.GroupCache, true
	case name == "spares":
		return models.GroupSpare, true
	case name == "special":
		return models.GroupSpecial, true
	}
	return models.GroupUnknown, false
}

func isDeviceName(name string) bool {
	return devicePathPattern.MatchString(name)
}

const tabWidth = 8

// indentWidth measures the visual indentation of a line, expanding tabs to
// the next tab stop. Some zpool builds mix tabs and spaces at the same
// visual level, so counting raw characters would flatten the nesting.
func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += tabWidth - width%tabWidth
		default:
			return width
		}
	}
	return width
}

// isStateColumn reports whether the second table column looks like a health
// keyword, which is what distinguishes a device/group row from noise. Spare
// devices report AVAIL/INUSE instead of a regular state.
func isStateColumn(s string) bool {
	if ParseState(s) != models.StateUnknown {
		return true
	}
	return s == "AVAIL" || s == "INUSE"
}

// ParseText parses a human-readable zpool status report. The parse is best
// effort: rows that match neither the group nor the device heuristics are
// skipped with a diagnostic and the rest of the table is still used.
func ParseText(data []byte) (*models.PoolReport, error) {
	report := &models.PoolReport{State: models.StateUnknown}

	type openNode struct {
		node  *models.Node
		depth int
	}
	var stack []openNode
	var root *models.Node
	rootDepth := 0

	inConfig := false
	done := false

	for _, raw := range strings.Split(string(data), "\n") {
		if done {
			break
		}
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !inConfig {
			key, value, found := strings.Cut(trimmed, ":")
			if !found {
				continue
			}
			value = strings.TrimSpace(value)
			switch strings.TrimSpace(key) {
			case "pool":
				report.Name = value
			case "state":
				report.State = ParseState(value)
			case "status":
				report.StatusText = value
			case "action":
				report.ActionText = value
			case "scan":
				report.ScanSummary = value
			case "config":
				inConfig = true
			}
			continue
		}

		if strings.HasPrefix(trimmed, "errors:") {
			done = true
			continue
		}

		fields := strings.Fields(trimmed)
		if fields[0] == "NAME" {
			// column title row
			continue
		}

		name := fields[0]
		depth := indentWidth(line)

		state := models.StateUnknown
		errs := models.ErrorCounts{}
		switch {
		case len(fields) >= 5 && isStateColumn(fields[1]):
			state = ParseState(fields[1])
			errs = models.ErrorCounts{
				Read:     parseCount(fields[2]),
				Write:    parseCount(fields[3]),
				Checksum: parseCount(fields[4]),
			}
		case len(fields) == 1:
			// bare group header such as "logs" or "cache"
		case len(fields) == 2 && isStateColumn(fields[1]):
			state = ParseState(fields[1])
		default:
			klog.V(1).Infof("Skipping unparseable status row: %q", trimmed)
			continue
		}

		if root == nil {
			root = &models.Node{Name: name, Kind: models.KindPool, State: state, Errors: errs}
			rootDepth = depth
			stack = []openNode{{node: root, depth: depth}}
			continue
		}
		if name == root.Name && depth <= rootDepth {
			// repeated pool name row
			continue
		}

		node := &models.Node{Name: name, State: state, Errors: errs}
		if groupType, ok := classifyGroupName(name); ok {
			node.Kind = models.KindGroup
			node.GroupType = groupType
		} else if isDeviceName(name) {
			node.Kind = models.KindDevice
			node.GroupType = models.GroupDisk
			node.DevicePath = name
		} else {
			// unrecognized name, kept but offered no mutating actions
			node.Kind = models.KindGroup
			node.GroupType = models.GroupUnknown
		}

		// pop closed ancestors, the root always stays open
		for len(stack) > 1 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		stack[len(stack)-1].node.AddChild(node)
		if node.Kind == models.KindGroup {
			stack = append(stack, openNode{node: node, depth: depth})
		}
	}

	if root == nil {
		return nil, ErrMalformedTopology
	}
	if report.Name == "" {
		report.Name = root.Name
	}
	if report.State == models.StateUnknown {
		report.State = root.State
	}
	report.Root = root
	return report, nil
}
