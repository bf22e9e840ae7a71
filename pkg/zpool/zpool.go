package zpool

import (
	"fmt"
	"os/exec"

	"github.com/storageconsole/zpool-topology/pkg/config"
	"github.com/storageconsole/zpool-topology/pkg/models"
	"github.com/storageconsole/zpool-topology/pkg/parser"
	"k8s.io/klog/v2"
)

// Manager fetches pool status and builds the argv for structural commands.
// The command execution itself stays behind the external command API; this
// only produces the identifiers and argument lists.
type Manager struct {
	config *config.Config
}

// NewManager creates a new zpool manager
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config: cfg,
	}
}

// logCommand logs the command being executed if debug mode is enabled
func (m *Manager) logCommand(cmdArgs []string) {
	if m.config.IsDebug() {
		klog.V(1).Infof(" Executing command: %v", cmdArgs)
	}
}

// logCommandResult logs the command result if debug mode is enabled
func (m *Manager) logCommandResult(exitCode int, stdout []byte) {
	if m.config.IsDebug() {
		klog.V(1).Infof(" Exit code: %d", exitCode)
		if len(stdout) > 0 {
			klog.V(1).Infof(" stdout: %s", string(stdout))
		}
	}
}

// GetStatus fetches and parses the current pool status. JSON output is
// preferred; plain-text reports parse through the heuristic fallback.
func (m *Manager) GetStatus() (*models.PoolReport, error) {
	m.logCommand(m.config.ZPoolStatusCmd)
	cmd := exec.Command(m.config.ZPoolStatusCmd[0], m.config.ZPoolStatusCmd[1:]...)
	output, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			exitCode = exitError.ExitCode()
		}
		m.logCommandResult(exitCode, output)
		return nil, fmt.Errorf("command failed: %w", err)
	}
	m.logCommandResult(0, output)

	report, err := parser.ParseAny(output)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool status: %w", err)
	}

	return report, nil
}

// targetIdentifier is the name a structural command addresses a node by:
// the device path for leaves, the synthetic group name otherwise
func targetIdentifier(node *models.Node) string {
	if node.DevicePath != "" {
		return node.DevicePath
	}
	return node.Name
}

// CommandArgs builds the zpool argv for a structural action on the given
// node. Attach and replace need the new device path in extra[0]; split
// needs the new pool name.
func (m *Manager) CommandArgs(action models.Action, pool string, target *models.Node, extra ...string) ([]string, error) {
	base := append([]string{}, m.config.ZPoolCmd...)

	switch action {
	case models.ActionAttach, models.ActionReplace:
		if target == nil || len(extra) < 1 {
			return nil, fmt.Errorf("%s requires a target and a new device", action)
		}
		return append(base, string(action), pool, targetIdentifier(target), extra[0]), nil
	case models.ActionDetach, models.ActionOffline, models.ActionOnline, models.ActionRemoveGroup:
		if target == nil {
			return nil, fmt.Errorf("%s requires a target", action)
		}
		return append(base, string(action), pool, targetIdentifier(target)), nil
	case models.ActionSplit:
		if len(extra) < 1 {
			return nil, fmt.Errorf("split requires a new pool name")
		}
		return append(base, "split", pool, extra[0]), nil
	default:
		return nil, fmt.Errorf("no argv mapping for action %s", action)
	}
}

// AddGroupArgs builds the zpool argv that adds a drafted group to the pool
func (m *Manager) AddGroupArgs(pool string, spec models.RedundancyGroupSpec) []string {
	args := append([]string{}, m.config.ZPoolCmd...)
	args = append(args, "add", pool)
	if spec.Type != models.GroupDisk {
		args = append(args, string(spec.Type))
	}
	return append(args, spec.Devices...)
}

// Dispatch runs a structural command argv. In test mode the configured stub
// runs instead; in dry-run mode nothing runs at all.
func (m *Manager) Dispatch(cmdArgs []string) error {
	if m.config.DryRun {
		klog.Infof("[DRY-RUN] Would run: %v", cmdArgs)
		return nil
	}
	if m.config.Mode == "test" {
		cmdArgs = m.config.ZPoolCmd
	}
	m.logCommand(cmdArgs)

	cmd := exec.Command(cmdArgs[0], cmdArgs[1:]...)
	output, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			exitCode = exitError.ExitCode()
		}
		m.logCommandResult(exitCode, output)
		return fmt.Errorf("command failed: %w, output: %s", err, string(output))
	}
	m.logCommandResult(0, output)

	return nil
}
