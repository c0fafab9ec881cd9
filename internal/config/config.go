// Package config loads per-skill test configuration: the defaults, the
// on-disk skill-test.config.yaml overlay, and the CLI overlay on top of that.
package config

import (
	"fmt"
)

// Hook names the optional hook a skill's test run should load.
type Hook string

const (
	HookNone   Hook = "none"
	HookSimple Hook = "simple"
	HookForced Hook = "forced"
	HookCustom Hook = "custom"
)

func (h Hook) valid() bool {
	switch h {
	case HookNone, HookSimple, HookForced, HookCustom:
		return true
	default:
		return false
	}
}

// DefaultModel is the model used when a skill config does not set one.
const DefaultModel = "claude-sonnet-4-20250514"

// Config is a single skill's resolved test configuration.
type Config struct {
	Model           string   `yaml:"model" mapstructure:"model"`
	TimeoutMS       int      `yaml:"timeout" mapstructure:"timeout"`
	Iterations      int      `yaml:"iterations" mapstructure:"iterations"`
	Threshold       float64  `yaml:"threshold" mapstructure:"threshold"`
	Hook            Hook     `yaml:"hook" mapstructure:"hook"`
	HookPath        string   `yaml:"hook_path" mapstructure:"hook_path"`
	TestPatterns    []string `yaml:"test_patterns" mapstructure:"test_patterns"`
	ExcludePatterns []string `yaml:"exclude_patterns" mapstructure:"exclude_patterns"`
	Strict          bool     `yaml:"strict" mapstructure:"strict"`
}

// Default returns the configuration applied when no skill-test.config.yaml
// is present.
func Default() Config {
	return Config{
		Model:      DefaultModel,
		TimeoutMS:  60_000,
		Iterations: 10,
		Threshold:  80,
		Hook:       HookNone,
		TestPatterns: []string{
			"skill-tests/**/test-*.yaml",
			"skill-tests/**/test-*.yml",
			"skill-tests/**/*.spec.yaml",
			"skill-tests/**/*.spec.yml",
		},
		ExcludePatterns: []string{"node_modules/"},
		Strict:          false,
	}
}

// Overrides holds CLI-supplied overrides; a nil field means "not set on the
// command line", so the skill's file-or-default value wins.
type Overrides struct {
	Model      *string
	TimeoutMS  *int
	Iterations *int
	Threshold  *float64
	Hook       *Hook
	HookPath   *string
	Strict     *bool
}

// Apply field-wise replaces cfg's fields with any set override, CLI winning
// over file.
func (o Overrides) Apply(cfg Config) Config {
	if o.Model != nil {
		cfg.Model = *o.Model
	}
	if o.TimeoutMS != nil {
		cfg.TimeoutMS = *o.TimeoutMS
	}
	if o.Iterations != nil {
		cfg.Iterations = *o.Iterations
	}
	if o.Threshold != nil {
		cfg.Threshold = *o.Threshold
	}
	if o.Hook != nil {
		cfg.Hook = *o.Hook
	}
	if o.HookPath != nil {
		cfg.HookPath = *o.HookPath
	}
	if o.Strict != nil {
		cfg.Strict = *o.Strict
	}
	return cfg
}

// Validate enforces the hook/hook_path coupling and other structural
// invariants.
func (c Config) Validate() error {
	if !c.Hook.valid() {
		return &Error{Op: "Validate", Err: fmt.Errorf("invalid hook %q", c.Hook)}
	}
	if c.Hook == HookCustom && c.HookPath == "" {
		return &Error{Op: "Validate", Err: fmt.Errorf("hook=custom requires hook_path")}
	}
	if c.Hook != HookCustom && c.HookPath != "" {
		return &Error{Op: "Validate", Err: fmt.Errorf("hook_path is only valid with hook=custom")}
	}
	if c.Iterations <= 0 {
		return &Error{Op: "Validate", Err: fmt.Errorf("iterations must be positive, got %d", c.Iterations)}
	}
	if c.TimeoutMS <= 0 {
		return &Error{Op: "Validate", Err: fmt.Errorf("timeout must be positive, got %d", c.TimeoutMS)}
	}
	if c.Threshold < 0 || c.Threshold > 100 {
		return &Error{Op: "Validate", Err: fmt.Errorf("threshold must be within [0, 100], got %v", c.Threshold)}
	}
	return nil
}
