package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// configFileName is the project-local and home-directory KDL config file
// codenav looks for, following the teacher's own "one dotfile per project
// plus one global base" convention (there: .lci.kdl).
const configFileName = ".codenav.kdl"

// LoadKDL loads configFileName from projectRoot, returning (nil, nil) when
// the file doesn't exist so callers fall back to defaults.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, configFileName)
	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configFileName, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	if cfg.Project.Root != "" {
		if filepath.IsAbs(cfg.Project.Root) {
			cfg.Project.Root = filepath.Clean(cfg.Project.Root)
		} else {
			cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Project.Root))
		}
	} else if absRoot, err := filepath.Abs(projectRoot); err == nil {
		cfg.Project.Root = absRoot
	} else {
		cfg.Project.Root = projectRoot
	}

	return cfg, nil
}

// parseKDL walks a parsed KDL document's top-level nodes (project, index,
// performance, refactor, feature_flags, include, exclude) into a Config
// seeded with codenav's defaults.
func parseKDL(content string) (*Config, error) {
	defaultRoot, err := os.Getwd()
	if err != nil {
		defaultRoot = "."
	}
	cfg := defaultConfig(defaultRoot)
	cfg.Include = nil
	cfg.Exclude = nil

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configFileName, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "index":
			parseIndexNode(cfg, n)
		case "performance":
			parsePerformanceNode(cfg, n)
		case "refactor":
			parseRefactorNode(cfg, n)
		case "feature_flags":
			parseFeatureFlagsNode(cfg, n)
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			cfg.Exclude = collectStringArgs(n)
		}
	}

	if cfg.Exclude == nil {
		cfg.Exclude = defaultExcludes()
	}
	if cfg.Include == nil {
		cfg.Include = []string{}
	}

	cfg.EnrichExclusionsWithBuildArtifacts()
	return cfg, nil
}

func parseIndexNode(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "max_file_size":
			if v, ok := firstIntArg(cn); ok {
				cfg.Index.MaxFileSize = int64(v)
			}
			if s, ok := firstStringArg(cn); ok {
				if sz, err := parseSize(s); err == nil {
					cfg.Index.MaxFileSize = sz
				}
			}
		case "max_total_size_mb":
			if v, ok := firstIntArg(cn); ok {
				cfg.Index.MaxTotalSizeMB = int64(v)
			}
		case "max_file_count":
			if v, ok := firstIntArg(cn); ok {
				cfg.Index.MaxFileCount = v
			}
		case "follow_symlinks":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Index.FollowSymlinks = b
			}
		case "respect_gitignore":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Index.RespectGitignore = b
			}
		case "watch_mode":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Index.WatchMode = b
			}
		case "watch_debounce_ms":
			if v, ok := firstIntArg(cn); ok {
				cfg.Index.WatchDebounceMs = v
			}
		}
	}
}

func parsePerformanceNode(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "max_memory_mb":
			if v, ok := firstIntArg(cn); ok {
				cfg.Performance.MaxMemoryMB = v
			}
		case "max_goroutines":
			if v, ok := firstIntArg(cn); ok {
				cfg.Performance.MaxGoroutines = v
			}
		case "parallel_file_workers":
			if v, ok := firstIntArg(cn); ok {
				cfg.Performance.ParallelFileWorkers = v
			}
		case "indexing_timeout_sec":
			if v, ok := firstIntArg(cn); ok {
				cfg.Performance.IndexingTimeoutSec = v
			}
		}
	}
}

func parseRefactorNode(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "default_scope":
			if s, ok := firstStringArg(cn); ok {
				cfg.Refactor.DefaultScope = s
			}
		case "max_files_per_operation":
			if v, ok := firstIntArg(cn); ok {
				cfg.Refactor.MaxFilesPerOperation = v
			}
		case "require_access_token":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Refactor.RequireAccessToken = b
			}
		}
	}
}

func parseFeatureFlagsNode(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "enable_graceful_degradation":
			if b, ok := firstBoolArg(cn); ok {
				cfg.FeatureFlags.EnableGracefulDegradation = b
			}
		case "enable_detailed_error_logging":
			if b, ok := firstBoolArg(cn); ok {
				cfg.FeatureFlags.EnableDetailedErrorLogging = b
			}
		}
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB".
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		multiplier = 1
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, err
	}
	return num * multiplier, nil
}
