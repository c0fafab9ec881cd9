// Package cli validates the process entry point's flags, wires every
// component together, and drives one full run to an exit code.
package cli

import (
	"fmt"

	"skilltest/internal/config"
)

// Exit codes, per the process entry point's contract.
const (
	ExitSuccess         = 0
	ExitThresholdFailed = 1
	ExitConfigError     = 2
	ExitExecutionError  = 3
)

// Format names the --format value.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Options is the fully-parsed CLI surface: every flag the run command
// accepts, already validated and converted to its typed form.
type Options struct {
	Paths []string

	Overrides config.Overrides

	Verbose    bool
	NoColor    bool
	Format     Format
	Filter     string
	Parallel   *int // nil = hardware parallelism; 0 = forced sequential
	NoErrorLog bool
}

// Validate enforces the flag-combination rules: hook=custom requires
// hook_path; hook_path is rejected with any other hook; format must be
// table or json.
func (o Options) Validate() error {
	hook := o.Overrides.Hook
	hookPath := o.Overrides.HookPath

	if hook != nil && *hook == config.HookCustom && (hookPath == nil || *hookPath == "") {
		return fmt.Errorf("--hook custom requires --hook-path")
	}
	if hookPath != nil && *hookPath != "" && (hook == nil || *hook != config.HookCustom) {
		return fmt.Errorf("--hook-path is only valid with --hook custom")
	}
	if o.Format != FormatTable && o.Format != FormatJSON {
		return fmt.Errorf("--format must be %q or %q, got %q", FormatTable, FormatJSON, o.Format)
	}
	return nil
}
