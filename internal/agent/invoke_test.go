package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvents_ExtractsResultAndToolCalls(t *testing.T) {
	raw := []byte(`[
		{"type": "system", "message": null},
		{"type": "assistant", "message": {"content": [
			{"type": "text", "text": "Let me check."},
			{"type": "tool_use", "name": "Read", "input": {}}
		]}},
		{"type": "assistant", "message": {"content": [
			{"type": "tool_use", "name": "Bash", "input": {}}
		]}},
		{"type": "result", "result": "hello world", "is_error": false}
	]`)

	resp, err := parseEvents(raw)
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.ResultText)
	assert.Equal(t, []string{"Read", "Bash"}, resp.ToolCalls)
	assert.False(t, resp.IsError)
}

func TestParseEvents_LastResultEventWins(t *testing.T) {
	raw := []byte(`[
		{"type": "result", "result": "first", "is_error": false},
		{"type": "result", "result": "second", "is_error": true}
	]`)

	resp, err := parseEvents(raw)
	require.NoError(t, err)
	assert.Equal(t, "second", resp.ResultText)
	assert.True(t, resp.IsError)
}

func TestParseEvents_UnknownTagsIgnored(t *testing.T) {
	raw := []byte(`[
		{"type": "some_future_tag"},
		{"type": "result", "result": "ok"}
	]`)

	resp, err := parseEvents(raw)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.ResultText)
}

func TestParseEvents_NoResultEventIsError(t *testing.T) {
	raw := []byte(`[{"type": "system"}]`)
	_, err := parseEvents(raw)
	assert.Error(t, err)
}

func TestParseEvents_MalformedJSONIsError(t *testing.T) {
	_, err := parseEvents([]byte("not json"))
	assert.Error(t, err)
}
