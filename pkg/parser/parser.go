package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/storageconsole/zpool-topology/pkg/models"
)

// ErrMalformedTopology is returned when no parseable pool root can be found
// in either input mode. Callers fall back to an empty placeholder tree
// rather than crashing.
var ErrMalformedTopology = errors.New("malformed topology: no parseable pool root")

// SourceKind selects which parse mode the input is in
type SourceKind int

const (
	// SourceStructured is the nested JSON description, the authoritative mode
	SourceStructured SourceKind = iota
	// SourceText is the human-readable zpool status report, a heuristic
	// compatibility fallback
	SourceText
)

// Source is a tagged input to Parse
type Source struct {
	Kind SourceKind
	Data []byte
}

// Parse builds a pool report from the given source
func Parse(src Source) (*models.PoolReport, error) {
	switch src.Kind {
	case SourceStructured:
		return ParseStructured(src.Data)
	default:
		return ParseText(src.Data)
	}
}

// ParseAny tries the structured mode first and falls back to text mode.
// Structured input always starts with a JSON object.
func ParseAny(data []byte) (*models.PoolReport, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseStructured(data)
	}
	return ParseText(data)
}

// StructuredVdev is one node of the structured topology description
type StructuredVdev struct {
	Name           string           `json:"name"`
	Type           string           `json:"type"`
	State          string           `json:"state"`
	Path           string           `json:"path,omitempty"`
	ReadErrors     string           `json:"read_errors,omitempty"`
	WriteErrors    string           `json:"write_errors,omitempty"`
	ChecksumErrors string           `json:"checksum_errors,omitempty"`
	Children       []StructuredVdev `json:"children,omitempty"`
}

// StructuredStatus is the root of the structured description: pool-level
// status fields plus the device tree
type StructuredStatus struct {
	Name       string          `json:"name"`
	State      string          `json:"state"`
	Status     string          `json:"status,omitempty"`
	Action     string          `json:"action,omitempty"`
	Scan       string          `json:"scan,omitempty"`
	ErrorCount string          `json:"error_count,omitempty"`
	Config     *StructuredVdev `json:"config"`
}

// ParseStructured performs a direct recursive translation of the nested
// description into a Node tree. Missing or malformed fields default to
// Unknown/zero; only a wholly absent root fails.
func ParseStructured(data []byte) (*models.PoolReport, error) {
	var status StructuredStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, ErrMalformedTopology
	}
	if status.Config == nil || (status.Config.Name == "" && len(status.Config.Children) == 0) {
		return nil, ErrMalformedTopology
	}

	root := &models.Node{
		Name:   status.Config.Name,
		Kind:   models.KindPool,
		State:  ParseState(status.Config.State),
		Errors: parseErrorCounts(status.Config),
	}
	if root.Name == "" {
		root.Name = status.Name
	}
	for i := range status.Config.Children {
		root.AddChild(translateVdev(&status.Config.Children[i]))
	}

	report := &models.PoolReport{
		Name:        status.Name,
		State:       ParseState(status.State),
		StatusText:  status.Status,
		ActionText:  status.Action,
		ScanSummary: status.Scan,
		ErrorCount:  status.ErrorCount,
		Root:        root,
	}
	if report.Name == "" {
		report.Name = root.Name
	}
	if report.State == models.StateUnknown {
		report.State = root.State
	}
	return report, nil
}

// translateVdev converts one structured record into a Node. A record is a
// device when its declared type is a plain disk and it carries a device
// path; everything else is a group.
func translateVdev(v *StructuredVdev) *models.Node {
	node := &models.Node{
		Name:   v.Name,
		State:  ParseState(v.State),
		Errors: parseErrorCounts(v),
	}

	declared := ParseGroupType(v.Type)
	if declared == models.GroupDisk && v.Path != "" && len(v.Children) == 0 {
		node.Kind = models.KindDevice
		node.GroupType = models.GroupDisk
		node.DevicePath = v.Path
		if node.Name == "" {
			node.Name = v.Path
		}
		return node
	}

	node.Kind = models.KindGroup
	node.GroupType = declared
	if len(v.Children) == 0 && v.Path != "" {
		// single-disk group, keeps its path so it can be replaced/attached
		node.DevicePath = v.Path
	}
	for i := range v.Children {
		node.AddChild(translateVdev(&v.Children[i]))
	}
	return node
}

func parseErrorCounts(v *StructuredVdev) models.ErrorCounts {
	return models.ErrorCounts{
		Read:     parseCount(v.ReadErrors),
		Write:    parseCount(v.WriteErrors),
		Checksum: parseCount(v.ChecksumErrors),
	}
}

// parseCount converts an error counter string to a non-negative int,
// defaulting to zero on absent or unparseable values
func parseCount(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseState maps a health keyword to a VdevState
func ParseState(s string) models.VdevState {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ONLINE":
		return models.StateOnline
	case "DEGRADED":
		return models.StateDegraded
	case "FAULTED":
		return models.StateFaulted
	case "UNAVAIL":
		return models.StateUnavail
	case "REMOVED":
		return models.StateRemoved
	case "OFFLINE":
		return models.StateOffline
	default:
		return models.StateUnknown
	}
}

// ParseGroupType maps a group kind keyword to a GroupType. Mirror and raidz
// keywords may carry an instance suffix (mirror-0, raidz2-1). An absent
// keyword stays Unknown; only an explicit disk/file declaration makes a disk.
func ParseGroupType(s string) models.GroupType {
	keyword := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(keyword, '-'); i >= 0 && !strings.HasPrefix(keyword, "draid") {
		keyword = keyword[:i]
	}
	switch {
	case keyword == "disk" || keyword == "file":
		return models.GroupDisk
	case keyword == "mirror":
		return models.GroupMirror
	case keyword == "raidz1" || keyword == "raidz":
		return models.GroupRaidz1
	case keyword == "raidz2":
		return models.GroupRaidz2
	case keyword == "raidz3":
		return models.GroupRaidz3
	case strings.HasPrefix(keyword, "draid"):
		return models.GroupDraid
	case keyword == "log" || keyword == "logs":
		return models.GroupLog
	case keyword == "cache":
		return models.GroupCache
	case keyword == "spare" || keyword == "spares":
		return models.GroupSpare
	case keyword == "special":
		return models.GroupSpecial
	default:
		return models.GroupUnknown
	}
}
