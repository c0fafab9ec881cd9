package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSandbox_SymlinksSkillByName(t *testing.T) {
	skillDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte("---\nname: demo\n---\n"), 0o644))

	sb, err := newSandbox("demo", skillDir)
	require.NoError(t, err)
	defer sb.close()

	link := filepath.Join(sb.dir, ".claude", "skills", "demo")
	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0)

	target, err := os.Readlink(link)
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(skillDir)
	require.NoError(t, err)
	assert.Equal(t, resolved, target)
}

func TestSandbox_CloseRemovesDirectory(t *testing.T) {
	skillDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte("---\nname: demo\n---\n"), 0o644))

	sb, err := newSandbox("demo", skillDir)
	require.NoError(t, err)

	dir := sb.dir
	require.NoError(t, sb.close())

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestNewSandbox_MissingSkillPathIsError(t *testing.T) {
	_, err := newSandbox("demo", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
