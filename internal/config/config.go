// Package config implements codenav's ambient configuration layer: a
// project-local ".codenav.kdl" (plus an optional "~/.codenav.kdl" base)
// loaded via sblinch/kdl-go, with build-artifact detection
// (build_artifact_detector.go) and .gitignore-aware exclusion
// (gitignore.go) feeding the symbol index's file discovery.
package config

import (
	"os"
	"runtime"
)

// Defaults for Index, mirroring the teacher's own size/count ceilings.
const (
	DefaultMaxFileSize    int64 = 5 * 1024 * 1024
	DefaultMaxTotalSizeMB int64 = 2048
	DefaultMaxFileCount         = 200_000
)

// Config is codenav's resolved, merged configuration for one project.
type Config struct {
	Version     int
	Project     Project
	Index       Index
	Performance Performance
	Refactor    Refactor
	FeatureFlags FeatureFlags
	Include     []string
	Exclude     []string
}

// Project identifies the root being indexed/navigated.
type Project struct {
	Root string
	Name string
}

// Index bounds what discoverFiles and the symbol index will walk.
type Index struct {
	MaxFileSize      int64
	MaxTotalSizeMB   int64
	MaxFileCount     int
	FollowSymlinks   bool
	RespectGitignore bool
	WatchMode        bool
	WatchDebounceMs  int
}

// Performance bounds the concurrency and timeouts of pool/index/resolver
// operations.
type Performance struct {
	MaxMemoryMB        int
	MaxGoroutines      int
	ParallelFileWorkers int // 0 = auto-detect (NumCPU-1, at least 1)
	IndexingTimeoutSec int
}

// Refactor controls the refactoring engine's safety posture, per
// spec.md §4.I's hybrid SEMANTIC/TEXT_ONLY rename mode and scope guard.
type Refactor struct {
	DefaultScope         string // "file", "directory", "project"
	MaxFilesPerOperation int
	RequireAccessToken   bool
}

// FeatureFlags toggles optional, costlier behaviors.
type FeatureFlags struct {
	EnableGracefulDegradation bool
	EnableDetailedErrorLogging bool
}

// Load resolves configuration for the project rooted at path: ~/.codenav.kdl
// as a base, merged with path's own .codenav.kdl, falling back to defaults
// when neither exists.
func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

// LoadWithRoot is Load with an explicit search directory, used when the
// config file lives somewhere other than the project root being indexed.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	} else if path != "" {
		searchDir = path
	}

	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	projectConfig, err := LoadKDL(searchDir)
	if err != nil {
		return nil, err
	}

	var cfg *Config
	switch {
	case baseConfig != nil && projectConfig != nil:
		cfg = mergeConfigs(baseConfig, projectConfig)
	case projectConfig != nil:
		cfg = projectConfig
	case baseConfig != nil:
		baseConfig.Project.Root = searchDir
		cfg = baseConfig
	default:
		cfg = defaultConfig(searchDir)
	}

	cfg.EnrichExclusionsWithBuildArtifacts()
	return cfg, nil
}

func defaultConfig(root string) *Config {
	abs := root
	if cwd, err := os.Getwd(); err == nil && root == "." {
		abs = cwd
	}
	return &Config{
		Version: 1,
		Project: Project{Root: abs},
		Index: Index{
			MaxFileSize:      DefaultMaxFileSize,
			MaxTotalSizeMB:   DefaultMaxTotalSizeMB,
			MaxFileCount:     DefaultMaxFileCount,
			FollowSymlinks:   false,
			RespectGitignore: true,
			WatchMode:        true,
			WatchDebounceMs:  300,
		},
		Performance: Performance{
			MaxMemoryMB:         500,
			MaxGoroutines:       runtime.NumCPU(),
			ParallelFileWorkers: 0,
			IndexingTimeoutSec:  120,
		},
		Refactor: Refactor{
			DefaultScope:         "project",
			MaxFilesPerOperation: 500,
			RequireAccessToken:   true,
		},
		FeatureFlags: FeatureFlags{
			EnableGracefulDegradation:  true,
			EnableDetailedErrorLogging: true,
		},
		Include: []string{},
		Exclude: defaultExcludes(),
	}
}

func defaultExcludes() []string {
	return []string{
		"**/.git/**",
		"**/.*/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/bower_components/**",
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/target/**",
		"**/bin/**",
		"**/obj/**",
		"**/*.min.js",
		"**/*.min.css",
		"**/__pycache__/**",
		"**/*.pyc",
		"**/Thumbs.db",
		"**/logs/**",
		"**/*.log",
	}
}

// mergeConfigs combines base and project configuration, with project
// settings taking precedence but base exclusions preserved alongside the
// project's own.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		excludeSet := make(map[string]bool, len(base.Exclude)+len(project.Exclude))
		for _, pattern := range base.Exclude {
			excludeSet[pattern] = true
		}
		for _, pattern := range project.Exclude {
			excludeSet[pattern] = true
		}
		merged.Exclude = make([]string, 0, len(excludeSet))
		for pattern := range excludeSet {
			merged.Exclude = append(merged.Exclude, pattern)
		}
	}

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}

	return &merged
}

// EnrichExclusionsWithBuildArtifacts appends language-detected build-output
// globs (package.json "outDir", Cargo.toml target-dir, …) to Exclude.
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	if c.Project.Root == "" {
		return
	}
	detected := DetectBuildOutputExcludes(c.Project.Root)
	if len(detected) == 0 {
		return
	}
	c.Exclude = DeduplicatePatterns(append(c.Exclude, detected...))
}
