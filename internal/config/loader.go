package config

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// FileName is the per-skill configuration file name.
const FileName = "skill-test.config.yaml"

// Load reads skill-test.config.yaml from skillDir using fs if present,
// otherwise returns the defaults. Unknown fields are rejected. The result
// is not yet layered with CLI overrides; call Overrides.Apply for that.
func Load(fs afero.Fs, skillDir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(skillDir, FileName)
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return Config{}, &Error{Op: "Load", Skill: skillDir, Err: err}
	}
	if !exists {
		return cfg, nil
	}

	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, &Error{Op: "Load", Skill: skillDir, Err: err}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return Config{}, &Error{Op: "Load", Skill: skillDir, Err: fmt.Errorf("parse %s: %w", FileName, err)}
	}

	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, &Error{Op: "Load", Skill: skillDir, Err: fmt.Errorf("unknown field in %s: %w", FileName, err)}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadAndOverride loads the per-skill config and layers CLI overrides on
// top, validating once more after the overlay is applied.
func LoadAndOverride(fs afero.Fs, skillDir string, overrides Overrides) (Config, error) {
	cfg, err := Load(fs, skillDir)
	if err != nil {
		return Config{}, err
	}

	cfg = overrides.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
