package testfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(dirOf(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

func TestLoad_ScenariosShape_HappyPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
scenarios:
  greets:
    prompt: "Say hello"
    assertions:
      - id: has-hello
        type: regex
        pattern: hello
        expect: present
`
	writeFile(t, fs, "/skill/skill-tests/test-greet.yaml", content)

	cases, err := Load(fs, "/skill", "/skill/skill-tests/test-greet.yaml")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "greets", cases[0].ID)
	assert.Equal(t, "Say hello", cases[0].Prompt)
	require.Len(t, cases[0].Required, 1)
	assert.Equal(t, "has-hello", cases[0].Required[0].ID())
}

func TestLoad_ScenariosShape_NamedAssertionRef(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
assertions:
  other-check:
    type: contains
    pattern: ok
    expect: present
scenarios:
  s1:
    prompt: hi
    assertions:
      - other-check
`
	writeFile(t, fs, "/skill/skill-tests/t.yaml", content)

	cases, err := Load(fs, "/skill", "/skill/skill-tests/t.yaml")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Len(t, cases[0].Required, 1)
	assert.Equal(t, "other-check", cases[0].Required[0].ID())
}

func TestLoad_ScenariosShape_UndefinedRefIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
assertions:
  other-check:
    type: contains
    pattern: ok
    expect: present
scenarios:
  s1:
    prompt: hi
    assertions:
      - needed-check
`
	writeFile(t, fs, "/skill/skill-tests/t.yaml", content)

	_, err := Load(fs, "/skill", "/skill/skill-tests/t.yaml")
	var undef *UndefinedAssertionRef
	require.ErrorAs(t, err, &undef)
	assert.Equal(t, "needed-check", undef.Name)
	assert.Equal(t, "s1", undef.Scenario)
}

func TestLoad_ScenariosShape_DuplicateIdInScenarioIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
scenarios:
  s1:
    prompt: hi
    assertions:
      - id: dup
        type: contains
        pattern: a
        expect: present
      - id: dup
        type: contains
        pattern: b
        expect: present
`
	writeFile(t, fs, "/skill/skill-tests/t.yaml", content)

	_, err := Load(fs, "/skill", "/skill/skill-tests/t.yaml")
	var dup *DuplicateAssertionIdInScenario
	assert.ErrorAs(t, err, &dup)
}

func TestLoad_ScenariosShape_SameIdInRequiredAndGoldenIsAllowed(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
scenarios:
  s1:
    prompt: hi
    assertions:
      - id: shared
        type: contains
        pattern: a
        expect: present
    golden_assertions:
      - id: shared
        type: contains
        pattern: b
        expect: present
`
	writeFile(t, fs, "/skill/skill-tests/t.yaml", content)

	cases, err := Load(fs, "/skill", "/skill/skill-tests/t.yaml")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "shared", cases[0].Required[0].ID())
	assert.Equal(t, "shared", cases[0].Golden[0].ID())
}

func TestLoad_ScenariosShape_EmptyPromptIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
scenarios:
  s1:
    prompt: "   "
`
	writeFile(t, fs, "/skill/skill-tests/t.yaml", content)

	_, err := Load(fs, "/skill", "/skill/skill-tests/t.yaml")
	var empty *EmptyPromptError
	assert.ErrorAs(t, err, &empty)
}

func TestLoad_ListShape_HappyPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
- id: t1
  prompt: "Say hello"
  assertions:
    - id: has-hello
      type: regex
      pattern: hello
      expect: present
`
	writeFile(t, fs, "/skill/skill-tests/test-1.yaml", content)

	cases, err := Load(fs, "/skill", "/skill/skill-tests/test-1.yaml")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "t1", cases[0].ID)
}

func TestLoad_ListShape_FileRefResolves(t *testing.T) {
	fs := afero.NewMemMapFs()
	shared := `
- id: has-hello
  type: regex
  pattern: hello
  expect: present
`
	writeFile(t, fs, "/skill/skill-tests/shared.yaml", shared)
	content := `
- id: t1
  prompt: "Say hello"
  assertions:
    - file: shared.yaml
`
	writeFile(t, fs, "/skill/skill-tests/test-1.yaml", content)

	cases, err := Load(fs, "/skill", "/skill/skill-tests/test-1.yaml")
	require.NoError(t, err)
	require.Len(t, cases[0].Required, 1)
	assert.Equal(t, "has-hello", cases[0].Required[0].ID())
}

func TestLoad_ListShape_FileRefOutsideSkillTestsIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/skill/outside.yaml", "[]")
	content := `
- id: t1
  prompt: "Say hello"
  assertions:
    - file: "../../outside.yaml"
`
	writeFile(t, fs, "/skill/skill-tests/test-1.yaml", content)

	_, err := Load(fs, "/skill", "/skill/skill-tests/test-1.yaml")
	var outside *FileRefOutsideSkillTests
	assert.ErrorAs(t, err, &outside)
}

func TestLoad_ListShape_FileRefSiblingDirectoryWithSharedPrefixIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/skill/skill-tests-secret/x.yaml", "[]")
	content := `
- id: t1
  prompt: "Say hello"
  assertions:
    - file: "../skill-tests-secret/x.yaml"
`
	writeFile(t, fs, "/skill/skill-tests/test-1.yaml", content)

	_, err := Load(fs, "/skill", "/skill/skill-tests/test-1.yaml")
	var outside *FileRefOutsideSkillTests
	assert.ErrorAs(t, err, &outside)
}

func TestLoad_ListShape_CircularReferenceIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/skill/skill-tests/a.yaml", `
- file: b.yaml
`)
	writeFile(t, fs, "/skill/skill-tests/b.yaml", `
- file: a.yaml
`)
	content := `
- id: t1
  prompt: "hi"
  assertions:
    - file: a.yaml
`
	writeFile(t, fs, "/skill/skill-tests/test-1.yaml", content)

	_, err := Load(fs, "/skill", "/skill/skill-tests/test-1.yaml")
	var circ *CircularReference
	assert.ErrorAs(t, err, &circ)
}

func TestLoad_ListShape_DuplicateAssertionIdIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
- id: t1
  prompt: "hi"
  assertions:
    - id: dup
      type: contains
      pattern: a
      expect: present
    - id: dup
      type: contains
      pattern: b
      expect: present
`
	writeFile(t, fs, "/skill/skill-tests/test-1.yaml", content)

	_, err := Load(fs, "/skill", "/skill/skill-tests/test-1.yaml")
	var dup *DuplicateAssertionId
	assert.ErrorAs(t, err, &dup)
}

func TestLoad_ListShape_LegacyExpectedForbidSkillsExpand(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
- id: t1
  prompt: "hi"
  expected_skills: ["Read"]
  forbid_skills: ["Write"]
`
	writeFile(t, fs, "/skill/skill-tests/test-1.yaml", content)

	cases, err := Load(fs, "/skill", "/skill/skill-tests/test-1.yaml")
	require.NoError(t, err)
	require.Len(t, cases[0].Required, 2)
	assert.Equal(t, "expected_skill:Read", cases[0].Required[0].ID())
	assert.Equal(t, "forbidden_skill:Write", cases[0].Required[1].ID())
}

func TestLoad_UnknownFormatIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/skill/skill-tests/bad.yaml", `just_a_string: true`)

	_, err := Load(fs, "/skill", "/skill/skill-tests/bad.yaml")
	var unknown *UnknownFormatError
	assert.ErrorAs(t, err, &unknown)
}
