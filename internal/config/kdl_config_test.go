package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, DefaultMaxFileSize, cfg.Index.MaxFileSize)
	assert.Equal(t, DefaultMaxTotalSizeMB, cfg.Index.MaxTotalSizeMB)
	assert.Equal(t, DefaultMaxFileCount, cfg.Index.MaxFileCount)
	assert.True(t, cfg.Index.RespectGitignore)
	assert.Equal(t, "project", cfg.Refactor.DefaultScope)
	assert.NotEmpty(t, cfg.Exclude)
}

func TestParseKDL_IndexSection(t *testing.T) {
	kdlContent := `
index {
    max_file_size "10MB"
    max_file_count 5000
    respect_gitignore false
    follow_symlinks true
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, int64(10*1024*1024), cfg.Index.MaxFileSize)
	assert.Equal(t, 5000, cfg.Index.MaxFileCount)
	assert.False(t, cfg.Index.RespectGitignore)
	assert.True(t, cfg.Index.FollowSymlinks)
}

func TestParseKDL_PerformanceSection(t *testing.T) {
	kdlContent := `
performance {
    max_memory_mb 256
    max_goroutines 8
    parallel_file_workers 4
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 256, cfg.Performance.MaxMemoryMB)
	assert.Equal(t, 8, cfg.Performance.MaxGoroutines)
	assert.Equal(t, 4, cfg.Performance.ParallelFileWorkers)
}

func TestParseKDL_RefactorSection(t *testing.T) {
	kdlContent := `
refactor {
    default_scope "file"
    max_files_per_operation 50
    require_access_token false
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "file", cfg.Refactor.DefaultScope)
	assert.Equal(t, 50, cfg.Refactor.MaxFilesPerOperation)
	assert.False(t, cfg.Refactor.RequireAccessToken)
}

func TestParseKDL_FeatureFlagsSection(t *testing.T) {
	kdlContent := `
feature_flags {
    enable_graceful_degradation false
    enable_detailed_error_logging false
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.False(t, cfg.FeatureFlags.EnableGracefulDegradation)
	assert.False(t, cfg.FeatureFlags.EnableDetailedErrorLogging)
}

func TestParseKDL_FullConfig(t *testing.T) {
	kdlContent := `
project {
    root "."
    name "test-project"
}

index {
    max_file_size "5MB"
    max_file_count 5000
    respect_gitignore true
}

performance {
    max_memory_mb 256
    max_goroutines 8
}

refactor {
    default_scope "directory"
    max_files_per_operation 100
}

exclude "**/.git/**" "**/node_modules/**"
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "test-project", cfg.Project.Name)
	assert.Equal(t, int64(5*1024*1024), cfg.Index.MaxFileSize)
	assert.Equal(t, 5000, cfg.Index.MaxFileCount)
	assert.Equal(t, 256, cfg.Performance.MaxMemoryMB)
	assert.Equal(t, 8, cfg.Performance.MaxGoroutines)
	assert.Equal(t, "directory", cfg.Refactor.DefaultScope)
	assert.Equal(t, 100, cfg.Refactor.MaxFilesPerOperation)
	assert.Contains(t, cfg.Exclude, "**/.git/**")
	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
}

func TestParseSize(t *testing.T) {
	cases := map[string]int64{
		"1B":    1,
		"10KB":  10 * 1024,
		"5MB":   5 * 1024 * 1024,
		"2GB":   2 * 1024 * 1024 * 1024,
		"1024":  1024,
	}
	for in, want := range cases {
		got, err := parseSize(in)
		require.NoErrorf(t, err, "parseSize(%q)", in)
		assert.Equal(t, want, got, "parseSize(%q)", in)
	}
}
