package assertionx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCodeBlocks_Multiple(t *testing.T) {
	text := "prose\n```python\nprint(1)\n```\nmore\n```\nbare\n```\n"
	blocks := extractCodeBlocks(text)
	if assert.Len(t, blocks, 2) {
		assert.Equal(t, "python", blocks[0].Language)
		assert.Equal(t, "print(1)\n", blocks[0].Content)
		assert.Equal(t, "", blocks[1].Language)
		assert.Equal(t, "bare\n", blocks[1].Content)
	}
}

func TestExtractCodeBlock_NilLanguageReturnsFirst(t *testing.T) {
	text := "```js\nconsole.log(1)\n```\n```py\nprint(1)\n```\n"
	block, ok := extractCodeBlock(text, nil)
	assert.True(t, ok)
	assert.Equal(t, "js", block.Language)
}

func TestExtractCodeBlock_MatchesRequestedLanguage(t *testing.T) {
	text := "```js\nconsole.log(1)\n```\n```py\nprint(1)\n```\n"
	lang := "py"
	block, ok := extractCodeBlock(text, &lang)
	assert.True(t, ok)
	assert.Equal(t, "print(1)\n", block.Content)
}

func TestExtractCodeBlock_NoMatchingLanguage(t *testing.T) {
	text := "```js\nconsole.log(1)\n```\n"
	lang := "rust"
	_, ok := extractCodeBlock(text, &lang)
	assert.False(t, ok)
}

func TestExtractCodeBlock_NoBlocksAtAll(t *testing.T) {
	_, ok := extractCodeBlock("just prose, no fences", nil)
	assert.False(t, ok)
}

func TestLanguageToExtension_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "py", languageToExtension("Python"))
	assert.Equal(t, "py", languageToExtension("PY"))
	assert.Equal(t, "sh", languageToExtension("Bash"))
	assert.Equal(t, "txt", languageToExtension("cobol"))
}
