package config

import (
	"runtime"

	"github.com/riftline/codenav/internal/errs"
)

// Validator validates a loaded Config and fills in any zero-valued field
// with a computed default, the way the teacher's own config validator
// applies smart CPU-derived defaults after KDL parsing.
type Validator struct{}

// NewValidator constructs a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates cfg section by section and applies
// smart defaults; it returns codenav's structured error envelope on the
// first validation failure.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		return err
	}
	if err := v.validateIndexConfig(&cfg.Index); err != nil {
		return err
	}
	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		return err
	}
	if err := v.validateRefactorConfig(&cfg.Refactor); err != nil {
		return err
	}
	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errs.New(errs.ParamInvalid, "project root cannot be empty").WithContext("section", "project")
	}
	return nil
}

func (v *Validator) validateIndexConfig(index *Index) error {
	if index.MaxFileSize <= 0 {
		return errs.New(errs.ParamOutOfRange, "index.max_file_size must be positive").WithContext("section", "index")
	}
	if index.MaxTotalSizeMB <= 0 {
		return errs.New(errs.ParamOutOfRange, "index.max_total_size_mb must be positive").WithContext("section", "index")
	}
	if index.MaxFileCount <= 0 {
		return errs.New(errs.ParamOutOfRange, "index.max_file_count must be positive").WithContext("section", "index")
	}
	return nil
}

func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	if perf.MaxMemoryMB < 0 {
		return errs.New(errs.ParamOutOfRange, "performance.max_memory_mb cannot be negative").WithContext("section", "performance")
	}
	if perf.MaxGoroutines < 0 {
		return errs.New(errs.ParamOutOfRange, "performance.max_goroutines cannot be negative").WithContext("section", "performance")
	}
	if perf.ParallelFileWorkers < 0 {
		return errs.New(errs.ParamOutOfRange, "performance.parallel_file_workers cannot be negative").WithContext("section", "performance")
	}
	return nil
}

func (v *Validator) validateRefactorConfig(r *Refactor) error {
	if r.MaxFilesPerOperation < 0 {
		return errs.New(errs.ParamOutOfRange, "refactor.max_files_per_operation cannot be negative").WithContext("section", "refactor")
	}
	switch r.DefaultScope {
	case "", "file", "directory", "project":
		return nil
	default:
		return errs.New(errs.ParamInvalid, "refactor.default_scope must be file, directory, or project").
			WithContext("section", "refactor", "value", r.DefaultScope)
	}
}

// setSmartDefaults fills zero-valued fields with CPU-derived defaults,
// leaving one core free for the OS the way the teacher's validator does.
func (v *Validator) setSmartDefaults(cfg *Config) {
	numCPU := runtime.NumCPU()
	if cfg.Performance.MaxGoroutines == 0 {
		cfg.Performance.MaxGoroutines = max(1, numCPU-1)
	}
	if cfg.Performance.ParallelFileWorkers == 0 {
		cfg.Performance.ParallelFileWorkers = max(1, numCPU-1)
	}
	if cfg.Performance.MaxMemoryMB == 0 {
		cfg.Performance.MaxMemoryMB = 1024
	}
	if cfg.Refactor.DefaultScope == "" {
		cfg.Refactor.DefaultScope = "project"
	}
	if cfg.Refactor.MaxFilesPerOperation == 0 {
		cfg.Refactor.MaxFilesPerOperation = 500
	}
}

// ValidateConfig is a convenience wrapper around NewValidator().ValidateAndSetDefaults.
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
