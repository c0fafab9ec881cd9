package testfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover_ExpandsGlobsAndSorts(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/skill/skill-tests/test-b.yaml", "[]")
	writeFile(t, fs, "/skill/skill-tests/test-a.yaml", "[]")
	writeFile(t, fs, "/skill/skill-tests/sub/test-c.spec.yaml", "[]")

	patterns := []string{"skill-tests/**/test-*.yaml", "skill-tests/**/*.spec.yaml"}
	found, err := Discover(fs, "/skill", patterns, nil)
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, []string{
		"/skill/skill-tests/sub/test-c.spec.yaml",
		"/skill/skill-tests/test-a.yaml",
		"/skill/skill-tests/test-b.yaml",
	}, found)
}

func TestDiscover_ExcludesSubstringMatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/skill/skill-tests/node_modules/test-x.yaml", "[]")
	writeFile(t, fs, "/skill/skill-tests/test-a.yaml", "[]")

	patterns := []string{"skill-tests/**/test-*.yaml"}
	found, err := Discover(fs, "/skill", patterns, []string{"node_modules/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/skill/skill-tests/test-a.yaml"}, found)
}

func TestDiscover_RelativeSkillPathReturnsRelativeMatches(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "skill-tests/test-a.yaml", "[]")

	patterns := []string{"skill-tests/**/test-*.yaml"}
	found, err := Discover(fs, ".", patterns, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"skill-tests/test-a.yaml"}, found)
}

func TestDiscover_DeduplicatesAcrossPatterns(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/skill/skill-tests/test-a.yaml", "[]")

	patterns := []string{"skill-tests/**/test-*.yaml", "skill-tests/**/test-*.yaml"}
	found, err := Discover(fs, "/skill", patterns, nil)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
