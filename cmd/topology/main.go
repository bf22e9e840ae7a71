package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/zapr"
	"github.com/storageconsole/zpool-topology/pkg/config"
	"github.com/storageconsole/zpool-topology/pkg/draft"
	"github.com/storageconsole/zpool-topology/pkg/models"
	"github.com/storageconsole/zpool-topology/pkg/parser"
	"github.com/storageconsole/zpool-topology/pkg/session"
	"github.com/storageconsole/zpool-topology/pkg/topology"
	"github.com/storageconsole/zpool-topology/pkg/zpool"
	"go.uber.org/zap"
	"k8s.io/klog/v2"
)

// Version can be set at build time using -ldflags
// Example: go build -ldflags="-X main.Version=1.0.0"
var Version = "dev"

func main() {
	// Initialize klog first
	klog.InitFlags(nil)

	// Parse command line flags
	mode := flag.String("mode", "direct", "Operation mode: test, direct, or chroot")
	logLevel := flag.String("log-level", "info", "Log level: info or debug")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	statusFile := flag.String("status-file", "", "Parse a status report from this file instead of running zpool")
	selectName := flag.String("select", "", "Node identity to compute legal actions for")
	selectKind := flag.String("select-kind", "device", "Kind of the selected node: pool, group, or device")
	validateDraft := flag.String("validate-draft", "", "Validate a YAML redundancy-group draft and exit")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	// Show version if requested
	if *showVersion {
		fmt.Printf("zpool-topology version %s\n", Version)
		return
	}

	// Validate mode
	if *mode != "test" && *mode != "direct" && *mode != "chroot" {
		klog.Fatalf("Invalid mode: %s. Must be one of: test, direct, chroot", *mode)
	}

	// Validate log level
	if *logLevel != "info" && *logLevel != "debug" {
		klog.Fatalf("Invalid log level: %s. Must be one of: info, debug", *logLevel)
	}

	// Validate and set log format
	if *logFormat != "text" && *logFormat != "json" {
		klog.Fatalf("Invalid log format: %s. Must be one of: text, json", *logFormat)
	}
	if *logFormat == "json" {
		// Configure zap for JSON logging
		var zapLog *zap.Logger
		var err error
		if *logLevel == "debug" {
			zapLog, err = zap.NewDevelopment()
		} else {
			zapLog, err = zap.NewProduction()
		}
		if err != nil {
			klog.Fatalf("Failed to initialize JSON logger: %v", err)
		}
		defer zapLog.Sync()

		// Set klog to use zap backend for JSON output
		klog.SetLogger(zapr.NewLogger(zapLog))
	}

	cfg := config.NewConfig(*mode)
	cfg.LogLevel = *logLevel
	if *logLevel == "debug" {
		flag.Set("v", "1")
	}

	// Draft validation is a standalone operation
	if *validateDraft != "" {
		specs, err := draft.Load(*validateDraft)
		if err != nil {
			klog.Fatalf("Failed to load draft: %v", err)
		}
		if err := validateAndReport(specs); err != nil {
			os.Exit(1)
		}
		return
	}

	report, err := loadReport(cfg, *statusFile)
	if err != nil {
		// best effort: an empty placeholder beats a crash
		klog.Errorf("Topology unavailable: %v", err)
		fmt.Println("Pool: (topology unavailable)")
		os.Exit(1)
	}

	if !cfg.IsPoolAllowed(report.Name) {
		klog.Fatalf("Pool %s is not in the whitelist", report.Name)
	}

	sess := session.New()
	sess.Load(report)

	printReport(report)

	if *selectName != "" {
		kind := parseKind(*selectKind)
		actions := sess.Select(*selectName, kind)
		if sess.Selected() == nil {
			klog.Infof("Selection %s/%s not found in current tree", kind, *selectName)
		}
		fmt.Printf("\nLegal actions for %s: %s\n", *selectName, formatActions(actions))
	}

	klog.Flush()
}

func loadReport(cfg *config.Config, statusFile string) (*models.PoolReport, error) {
	if statusFile != "" {
		data, err := os.ReadFile(statusFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read status file: %w", err)
		}
		return parser.ParseAny(data)
	}
	manager := zpool.NewManager(cfg)
	return manager.GetStatus()
}

func validateAndReport(specs []models.RedundancyGroupSpec) error {
	if err := topology.ValidateSpecs(specs); err != nil {
		fmt.Printf("Draft is invalid: %v\n", err)
		return err
	}
	fmt.Println("Draft is valid")
	return nil
}

func parseKind(s string) models.VdevKind {
	switch strings.ToLower(s) {
	case "pool":
		return models.KindPool
	case "group":
		return models.KindGroup
	default:
		return models.KindDevice
	}
}

func printReport(report *models.PoolReport) {
	fmt.Printf("Pool: %s (%s)\n", report.Name, report.State)
	if report.ScanSummary != "" {
		fmt.Printf("Scan: %s\n", report.ScanSummary)
	}
	report.Root.Walk(func(node *models.Node, depth int) bool {
		label := node.Name
		if node.Kind == models.KindGroup && node.GroupType != models.GroupUnknown {
			label = fmt.Sprintf("%s [%s]", node.Name, node.GroupType)
		}
		fmt.Printf("%s%-40s %s  %d/%d/%d\n", strings.Repeat("  ", depth), label,
			node.State, node.Errors.Read, node.Errors.Write, node.Errors.Checksum)
		return true
	})
}

func formatActions(actions models.ActionSet) string {
	list := actions.List()
	if len(list) == 0 {
		return "(none)"
	}
	names := make([]string, len(list))
	for i, action := range list {
		names[i] = string(action)
	}
	return strings.Join(names, ", ")
}
