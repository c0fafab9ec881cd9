// Package skill discovers skill directories and reads their SKILL.md
// front-matter.
package skill

// Dir is a discovered skill directory. Identity is Name, not Path.
type Dir struct {
	Name string
	Path string
}

// Metadata is the parsed SKILL.md YAML front-matter. Only Name is required;
// the rest round out a realistic front-matter schema the way
// pkg/harness/skills/types.go's SkillMetadata does for agent prompts.
type Metadata struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	License      string   `yaml:"license,omitempty"`
	AllowedTools []string `yaml:"allowed-tools,omitempty"`
}
