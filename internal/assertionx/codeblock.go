package assertionx

import (
	"regexp"
	"strings"
)

// CodeBlock is a parsed fenced Markdown code block.
type CodeBlock struct {
	Language string // empty if the fence had no language tag
	Content  string
}

var codeBlockRE = regexp.MustCompile("(?s)```(\\w*)\\n(.*?)```")

// extractCodeBlocks finds every fenced code block in text, in order of
// appearance (grounded on the original Rust codeblock.rs extractor).
func extractCodeBlocks(text string) []CodeBlock {
	matches := codeBlockRE.FindAllStringSubmatch(text, -1)
	blocks := make([]CodeBlock, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, CodeBlock{Language: m[1], Content: m[2]})
	}
	return blocks
}

// extractCodeBlock returns the first code block matching language (if
// given), or the first block overall otherwise.
func extractCodeBlock(text string, language *string) (CodeBlock, bool) {
	blocks := extractCodeBlocks(text)
	if language == nil {
		if len(blocks) == 0 {
			return CodeBlock{}, false
		}
		return blocks[0], true
	}
	for _, b := range blocks {
		if b.Language == *language {
			return b, true
		}
	}
	return CodeBlock{}, false
}

// languageToExtension maps a fence language tag to a file extension for the
// exec assertion's temp file, matching codeblock.rs's table.
func languageToExtension(language string) string {
	switch strings.ToLower(language) {
	case "javascript", "js":
		return "js"
	case "typescript", "ts":
		return "ts"
	case "python", "py":
		return "py"
	case "rust", "rs":
		return "rs"
	case "svelte":
		return "svelte"
	case "json":
		return "json"
	case "html":
		return "html"
	case "css":
		return "css"
	case "bash", "sh", "shell":
		return "sh"
	default:
		return "txt"
	}
}
