package agent

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// sandbox is the throwaway directory created per agent invocation. Its
// lifetime never escapes one iteration: created, populated, and destroyed
// by a single call to run.
type sandbox struct {
	dir string
}

// newSandbox creates a fresh temp directory and symlinks skillPath into it
// as .claude/skills/<skillName>/, matching the HostSandbox pattern of
// uuid-named throwaway workspaces.
func newSandbox(skillName, skillPath string) (*sandbox, error) {
	canon, err := filepath.Abs(skillPath)
	if err != nil {
		return nil, &SandboxError{Op: "resolve skill path", Err: err}
	}
	canon, err = filepath.EvalSymlinks(canon)
	if err != nil {
		return nil, &SandboxError{Op: "canonicalise skill path", Err: err}
	}

	dir, err := os.MkdirTemp("", fmt.Sprintf("skilltest-%s-", uuid.NewString()))
	if err != nil {
		return nil, &SandboxError{Op: "create temp dir", Err: err}
	}

	skillsDir := filepath.Join(dir, ".claude", "skills")
	if err := os.MkdirAll(skillsDir, 0o755); err != nil {
		os.RemoveAll(dir)
		return nil, &SandboxError{Op: "create skills dir", Err: err}
	}

	link := filepath.Join(skillsDir, skillName)
	if err := os.Symlink(canon, link); err != nil {
		os.RemoveAll(dir)
		return nil, &SandboxError{Op: "symlink skill", Err: err}
	}

	return &sandbox{dir: dir}, nil
}

// close removes the sandbox directory. Invoke unconditionally, including on
// timeout, so no sandbox ever outlives its iteration.
func (s *sandbox) close() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return &SandboxError{Op: "remove temp dir", Err: err}
	}
	return nil
}
