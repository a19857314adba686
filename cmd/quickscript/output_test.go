package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderYAML_KeepsKeyOrderAndQuotesAmbiguousStrings(t *testing.T) {
	raw := json.RawMessage(`{"job_id":"abc","status":"complete","progress":1,"message":"true","result_url":"/download/abc"}`)

	out, err := renderYAML(raw)
	require.NoError(t, err)
	assert.Equal(t, "job_id: abc\nstatus: complete\nprogress: 1\nmessage: \"true\"\nresult_url: /download/abc\n", out)
}

func TestRenderJSON_Indents(t *testing.T) {
	out, err := renderJSON(json.RawMessage(`{"detail":"Job not found"}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"detail\": \"Job not found\"\n}\n", out)
}

func TestStatusRenderer(t *testing.T) {
	for _, format := range []string{"", "json", "JSON", "yaml", "yml"} {
		_, err := statusRenderer(format)
		assert.NoError(t, err, format)
	}
	_, err := statusRenderer("toml")
	assert.Error(t, err)
}
