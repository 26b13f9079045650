package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/A2-ai/spackle/pkg/spackle"
	"github.com/A2-ai/spackle/pkg/testutil"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `
[[slots]]
key = "name"
type = "String"

[[slots]]
key = "port"
type = "Number"

[[hooks]]
key = "init"
command = ["git", "init"]
`

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestDefinitions(t *testing.T) {
	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewInfoTool().Definition(), "spackle_info", []string{"project"}},
		{NewCheckTool().Definition(), "spackle_check", []string{"project"}},
		{NewFillTool().Definition(), "spackle_fill", []string{"project", "output"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.def.Name)
			assert.ElementsMatch(t, tt.required, tt.def.InputSchema.Required)
		})
	}
}

func TestInfoTool(t *testing.T) {
	p := testutil.NewTestProject(t, manifest, nil)

	res, err := NewInfoTool().Handle(context.Background(), makeReq(map[string]interface{}{"project": p.Dir}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(res))

	var info spackle.InfoResult
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &info))
	assert.Len(t, info.Slots, 2)
	assert.Equal(t, []string{"init"}, info.HookOrder)

	res, err = NewInfoTool().Handle(context.Background(), makeReq(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestCheckTool(t *testing.T) {
	p := testutil.NewTestProject(t, manifest, map[string]string{"a.txt.j2": "{{ nope }}"})

	res, err := NewCheckTool().Handle(context.Background(), makeReq(map[string]interface{}{
		"project": p.Dir,
		"values":  map[string]interface{}{"port": "eighty"},
	}))
	require.NoError(t, err)

	var result struct {
		Valid    bool `json:"valid"`
		Problems []struct {
			Code string `json:"code"`
		} `json:"problems"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
	assert.False(t, result.Valid)
	require.Len(t, result.Problems, 2)
	assert.Equal(t, "TEMPLATE_VALIDATE", result.Problems[0].Code)
	assert.Equal(t, "VALUE_TYPE_MISMATCH", result.Problems[1].Code)
}

func TestFillTool(t *testing.T) {
	p := testutil.NewTestProject(t, manifest, map[string]string{"app.conf.j2": "{{ name }}:{{ port }}"})
	runner := testutil.NewFakeRunner()
	out := p.OutDir("out")

	tool := NewFillTool(spackle.WithRunner(runner))
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": p.Dir,
		"output":  out,
		"values":  map[string]interface{}{"name": "api", "port": float64(8080)},
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(res))

	assert.Equal(t, map[string]string{"app.conf": "api:8080"}, testutil.ReadTree(t, out))
	assert.Equal(t, []string{"git init"}, runner.CommandLines())

	// second fill into the same output needs overwrite
	res, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": p.Dir,
		"output":  out,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "PATH_EXISTS")
}

func TestStringMap(t *testing.T) {
	assert.Nil(t, stringMap(nil))
	assert.Nil(t, stringMap("x"))
	assert.Equal(t, map[string]string{
		"s": "text",
		"i": "42",
		"f": "0.5",
		"b": "true",
	}, stringMap(map[string]interface{}{"s": "text", "i": float64(42), "f": 0.5, "b": true}))
}

func TestNew(t *testing.T) {
	s := New("test")
	require.NotNil(t, s)
}
