package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skilltest/internal/config"
	"skilltest/internal/testutil"
)

func hookPtr(h config.Hook) *config.Hook { return &h }

func TestValidate_HookCustomWithoutPathFails(t *testing.T) {
	opts := Options{Format: FormatTable, Overrides: config.Overrides{Hook: hookPtr(config.HookCustom)}}
	assert.Error(t, opts.Validate())
}

func TestValidate_HookPathWithoutCustomHookFails(t *testing.T) {
	opts := Options{Format: FormatTable, Overrides: config.Overrides{HookPath: testutil.StringPtr("./hook.sh")}}
	assert.Error(t, opts.Validate())
}

func TestValidate_HookCustomWithPathSucceeds(t *testing.T) {
	opts := Options{Format: FormatTable, Overrides: config.Overrides{
		Hook:     hookPtr(config.HookCustom),
		HookPath: testutil.StringPtr("./hook.sh"),
	}}
	assert.NoError(t, opts.Validate())
}

func TestValidate_UnknownFormatFails(t *testing.T) {
	opts := Options{Format: "xml"}
	assert.Error(t, opts.Validate())
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	opts := Options{Format: FormatTable}
	assert.NoError(t, opts.Validate())
}
