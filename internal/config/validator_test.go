package config

import (
	"testing"
)

func TestValidateAndSetDefaults(t *testing.T) {
	cfg := &Config{
		Project: Project{
			Root: "/test/root",
			Name: "test-project",
		},
		Index: Index{
			MaxFileSize:    1024 * 1024,
			MaxTotalSizeMB: 1000,
			MaxFileCount:   10000,
		},
		Performance: Performance{
			MaxMemoryMB:         2048,
			MaxGoroutines:       1,
			ParallelFileWorkers: 1,
		},
		Refactor: Refactor{
			MaxFilesPerOperation: 0, // Should be set to 500
		},
	}

	validator := NewValidator()
	err := validator.ValidateAndSetDefaults(cfg)
	if err != nil {
		t.Fatalf("ValidateAndSetDefaults failed: %v", err)
	}

	if cfg.Performance.MaxGoroutines == 0 {
		t.Errorf("MaxGoroutines should have been set to a CPU-derived default")
	}

	if cfg.Performance.ParallelFileWorkers == 0 {
		t.Errorf("ParallelFileWorkers should have been set to a CPU-derived default")
	}

	if cfg.Refactor.MaxFilesPerOperation == 0 {
		t.Errorf("MaxFilesPerOperation should have been set to 500")
	}

	if cfg.Refactor.DefaultScope == "" {
		t.Errorf("DefaultScope should have a default value")
	}
}

func TestValidateProjectConfig(t *testing.T) {
	validator := NewValidator()

	err := validator.validateProjectConfig(&Project{
		Root: "/test/root",
		Name: "test-project",
	})
	if err != nil {
		t.Errorf("Expected no error for valid config, got %v", err)
	}

	err = validator.validateProjectConfig(&Project{
		Root: "",
		Name: "test-project",
	})
	if err == nil {
		t.Errorf("Expected error for empty root")
	}
}

func TestValidateIndexConfig(t *testing.T) {
	validator := NewValidator()

	err := validator.validateIndexConfig(&Index{
		MaxFileSize:    1024 * 1024,
		MaxTotalSizeMB: 1000,
		MaxFileCount:   10000,
	})
	if err != nil {
		t.Errorf("Expected no error for valid config, got %v", err)
	}

	err = validator.validateIndexConfig(&Index{
		MaxFileSize:    0,
		MaxTotalSizeMB: 1000,
		MaxFileCount:   10000,
	})
	if err == nil {
		t.Errorf("Expected error for zero MaxFileSize")
	}

	err = validator.validateIndexConfig(&Index{
		MaxFileSize:    1024 * 1024,
		MaxTotalSizeMB: 0,
		MaxFileCount:   10000,
	})
	if err == nil {
		t.Errorf("Expected error for zero MaxTotalSizeMB")
	}

	err = validator.validateIndexConfig(&Index{
		MaxFileSize:    1024 * 1024,
		MaxTotalSizeMB: 1000,
		MaxFileCount:   0,
	})
	if err == nil {
		t.Errorf("Expected error for zero MaxFileCount")
	}
}

func TestValidatePerformanceConfig(t *testing.T) {
	validator := NewValidator()

	err := validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB:         2048,
		MaxGoroutines:       4,
		ParallelFileWorkers: 8,
	})
	if err != nil {
		t.Errorf("Expected no error for valid config, got %v", err)
	}

	// MaxGoroutines = 0 is valid (means auto-detect)
	err = validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB:         2048,
		MaxGoroutines:       0,
		ParallelFileWorkers: 8,
	})
	if err != nil {
		t.Errorf("Expected no error for MaxGoroutines = 0 (auto-detect), got %v", err)
	}

	// ParallelFileWorkers = 0 is valid (means auto-detect)
	err = validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB:         2048,
		MaxGoroutines:       4,
		ParallelFileWorkers: 0,
	})
	if err != nil {
		t.Errorf("Expected no error for ParallelFileWorkers = 0 (auto-detect), got %v", err)
	}

	err = validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB:         2048,
		MaxGoroutines:       -1,
		ParallelFileWorkers: 8,
	})
	if err == nil {
		t.Errorf("Expected error for MaxGoroutines = -1")
	}

	err = validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB:         2048,
		MaxGoroutines:       4,
		ParallelFileWorkers: -1,
	})
	if err == nil {
		t.Errorf("Expected error for ParallelFileWorkers = -1")
	}

	err = validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB:         -1,
		MaxGoroutines:       4,
		ParallelFileWorkers: 8,
	})
	if err == nil {
		t.Errorf("Expected error for negative MaxMemoryMB")
	}
}

func TestValidateRefactorConfig(t *testing.T) {
	validator := NewValidator()

	err := validator.validateRefactorConfig(&Refactor{
		DefaultScope:         "file",
		MaxFilesPerOperation: 100,
	})
	if err != nil {
		t.Errorf("Expected no error for valid config, got %v", err)
	}

	for _, scope := range []string{"", "file", "directory", "project"} {
		err = validator.validateRefactorConfig(&Refactor{DefaultScope: scope})
		if err != nil {
			t.Errorf("Expected scope %q to be valid, got %v", scope, err)
		}
	}

	err = validator.validateRefactorConfig(&Refactor{DefaultScope: "bogus"})
	if err == nil {
		t.Errorf("Expected error for invalid default_scope")
	}

	err = validator.validateRefactorConfig(&Refactor{MaxFilesPerOperation: -1})
	if err == nil {
		t.Errorf("Expected error for negative max_files_per_operation")
	}
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{
		Project: Project{
			Root: "/test/root",
			Name: "test-project",
		},
		Index: Index{
			MaxFileSize:    1024 * 1024,
			MaxTotalSizeMB: 1000,
			MaxFileCount:   10000,
		},
		Performance: Performance{
			MaxMemoryMB:         2048,
			MaxGoroutines:       1,
			ParallelFileWorkers: 1,
		},
	}

	err := ValidateConfig(cfg)
	if err != nil {
		t.Fatalf("ValidateConfig failed: %v", err)
	}

	invalidCfg := &Config{
		Project: Project{
			Root: "",
			Name: "test-project",
		},
	}

	err = ValidateConfig(invalidCfg)
	if err == nil {
		t.Errorf("Expected error for invalid config")
	}
}

func TestSetSmartDefaults(t *testing.T) {
	cfg := &Config{
		Project: Project{
			Root: "/test/root",
			Name: "test-project",
		},
		Index: Index{
			MaxFileSize:    1024 * 1024,
			MaxTotalSizeMB: 1000,
			MaxFileCount:   10000,
		},
		Performance: Performance{
			MaxMemoryMB: 0, // Should be set
		},
		Refactor: Refactor{
			MaxFilesPerOperation: 0, // Should be set
		},
	}

	validator := NewValidator()
	validator.setSmartDefaults(cfg)

	if cfg.Performance.MaxMemoryMB == 0 {
		t.Errorf("MaxMemoryMB should have been set")
	}

	if cfg.Refactor.MaxFilesPerOperation == 0 {
		t.Errorf("MaxFilesPerOperation should have been set")
	}

	if cfg.Refactor.DefaultScope == "" {
		t.Errorf("DefaultScope should have been set")
	}
}

func BenchmarkValidateAndSetDefaults(b *testing.B) {
	cfg := &Config{
		Project: Project{
			Root: "/test/root",
			Name: "test-project",
		},
		Index: Index{
			MaxFileSize:    1024 * 1024,
			MaxTotalSizeMB: 1000,
			MaxFileCount:   10000,
		},
		Performance: Performance{
			MaxMemoryMB: 2048,
		},
	}

	validator := NewValidator()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		testCfg := *cfg
		_ = validator.ValidateAndSetDefaults(&testCfg)
	}
}
