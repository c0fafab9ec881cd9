package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func writeSkill(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	assert.NoError(t, fs.MkdirAll(path, 0o755))
	assert.NoError(t, afero.WriteFile(fs, path+"/SKILL.md", []byte("---\nname: greeter\ndescription: says hello\n---\n"), 0o644))
}

func baseOptions(paths []string) Options {
	return Options{Paths: paths, Format: FormatTable}
}

func TestRun_InvalidFlagCombinationReturnsConfigError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSkill(t, fs, "/skills/greeter")

	opts := baseOptions([]string{"/skills/greeter"})
	opts.Format = "xml"

	var out, errOut bytes.Buffer
	code := Run(fs, opts, &out, &errOut)

	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, errOut.String(), "--format")
}

func TestRun_UnresolvableSkillPathReturnsExecutionError(t *testing.T) {
	fs := afero.NewMemMapFs()

	opts := baseOptions([]string{"/does/not/exist"})

	var out, errOut bytes.Buffer
	code := Run(fs, opts, &out, &errOut)

	assert.Equal(t, ExitExecutionError, code)
}

func TestRun_InvalidSkillConfigReturnsConfigError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSkill(t, fs, "/skills/greeter")
	assert.NoError(t, afero.WriteFile(fs, "/skills/greeter/skill-test.config.yaml", []byte("iterations: -1\n"), 0o644))

	opts := baseOptions([]string{"/skills/greeter"})

	var out, errOut bytes.Buffer
	code := Run(fs, opts, &out, &errOut)

	assert.Equal(t, ExitConfigError, code)
}

func TestRun_SkillWithNoTestFilesSucceedsWithoutInvokingAgent(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSkill(t, fs, "/skills/greeter")

	opts := baseOptions([]string{"/skills/greeter"})

	var out, errOut bytes.Buffer
	code := Run(fs, opts, &out, &errOut)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out.String(), "0 skills, 0 tests")
}

func TestRun_JSONFormatSuppressesTranscriptOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSkill(t, fs, "/skills/greeter")

	opts := baseOptions([]string{"/skills/greeter"})
	opts.Format = FormatJSON

	var out, errOut bytes.Buffer
	code := Run(fs, opts, &out, &errOut)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out.String(), `"timestamp"`)
	assert.NotContains(t, out.String(), "running skill tests")
}
