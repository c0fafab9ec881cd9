package skill

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// globChars are the characters that mark a path argument as a glob rather
// than a literal path, matching the convention doublestar itself uses.
const globChars = "*?[{"

// Resolve turns CLI path arguments into an ordered, deduplicated list of
// skill directories. An empty argument list resolves to the current
// working directory.
func Resolve(fs afero.Fs, paths []string) ([]Dir, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var candidates []string
	for _, p := range paths {
		if strings.ContainsAny(p, globChars) {
			matches, err := expandGlob(fs, p)
			if err != nil {
				return nil, &Error{Op: "Resolve", Path: p, Err: err}
			}
			if len(matches) == 0 {
				return nil, &EmptyGlobError{Pattern: p}
			}
			candidates = append(candidates, matches...)
		} else {
			candidates = append(candidates, p)
		}
	}

	sort.Strings(candidates)
	candidates = dedupe(candidates)

	seen := make(map[string]string, len(candidates)) // name -> first path
	dirs := make([]Dir, 0, len(candidates))
	for _, p := range candidates {
		dir, err := load(fs, p)
		if err != nil {
			return nil, err
		}
		if first, ok := seen[dir.Name]; ok {
			return nil, &DuplicateNameError{Name: dir.Name, FirstPath: first, SecondPath: dir.Path}
		}
		seen[dir.Name] = dir.Path
		dirs = append(dirs, dir)
	}

	return dirs, nil
}

func expandGlob(fs afero.Fs, pattern string) ([]string, error) {
	iofs := afero.NewIOFS(fs)
	matches, err := doublestar.Glob(iofs, pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob: %w", err)
	}

	var dirs []string
	for _, m := range matches {
		if isSkillDir(fs, m) {
			dirs = append(dirs, m)
		}
	}
	return dirs, nil
}

func isSkillDir(fs afero.Fs, path string) bool {
	isDir, err := afero.IsDir(fs, path)
	if err != nil || !isDir {
		return false
	}
	exists, err := afero.Exists(fs, filepath.Join(path, "SKILL.md"))
	return err == nil && exists
}

func dedupe(in []string) []string {
	out := in[:0]
	var last string
	for i, v := range in {
		if i == 0 || v != last {
			out = append(out, v)
			last = v
		}
	}
	return out
}

func load(fs afero.Fs, path string) (Dir, error) {
	isDir, err := afero.IsDir(fs, path)
	if err != nil || !isDir {
		return Dir{}, &Error{Op: "Resolve", Path: path, Err: fmt.Errorf("directory does not exist")}
	}

	skillMD := filepath.Join(path, "SKILL.md")
	exists, err := afero.Exists(fs, skillMD)
	if err != nil {
		return Dir{}, &Error{Op: "Resolve", Path: path, Err: err}
	}
	if !exists {
		return Dir{}, &Error{Op: "Resolve", Path: path, Err: fmt.Errorf("SKILL.md not found")}
	}

	content, err := afero.ReadFile(fs, skillMD)
	if err != nil {
		return Dir{}, &Error{Op: "Resolve", Path: path, Err: err}
	}

	meta, err := ParseFrontMatter(content)
	if err != nil {
		return Dir{}, &Error{Op: "Resolve", Path: path, Err: err}
	}
	if meta.Name == "" {
		return Dir{}, &Error{Op: "Resolve", Path: path, Err: fmt.Errorf("SKILL.md front-matter is missing a name")}
	}

	return Dir{Name: meta.Name, Path: path}, nil
}

// ParseFrontMatter extracts the YAML front-matter from a SKILL.md's content,
// delimited by the first two "---" fence lines, the same way
// pkg/harness/skills/parser.go reads agent front-matter.
func ParseFrontMatter(content []byte) (Metadata, error) {
	text := string(content)

	if !strings.HasPrefix(strings.TrimLeft(text, "\r\n"), "---") {
		return Metadata{}, fmt.Errorf("no front-matter found")
	}

	text = strings.TrimLeft(text, "\r\n")
	rest := text[3:]
	parts := strings.SplitN(rest, "---", 2)
	if len(parts) < 2 {
		return Metadata{}, fmt.Errorf("front-matter not terminated")
	}

	var meta Metadata
	if err := yaml.Unmarshal([]byte(parts[0]), &meta); err != nil {
		return Metadata{}, fmt.Errorf("parse front-matter: %w", err)
	}
	meta.Name = strings.TrimSpace(meta.Name)
	return meta, nil
}
