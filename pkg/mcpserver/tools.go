package mcpserver

import (
	"context"
	"fmt"
	"strconv"

	"github.com/A2-ai/spackle/pkg/spackle"
	"github.com/mark3labs/mcp-go/mcp"
)

// InfoTool handles the spackle_info MCP tool.
type InfoTool struct {
	opts []spackle.Option
}

// NewInfoTool creates an InfoTool
func NewInfoTool(opts ...spackle.Option) *InfoTool {
	return &InfoTool{opts: opts}
}

// Definition returns the MCP tool definition for spackle_info.
func (t *InfoTool) Definition() mcp.Tool {
	return mcp.NewTool("spackle_info",
		mcp.WithDescription("Describe the slots and hooks of a spackle project without generating anything."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Path to the project directory or single-file project"),
		),
	)
}

// Handle processes the spackle_info tool call.
func (t *InfoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	if project == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}

	info, err := spackle.Info(project, t.opts...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultJSON(info)
}

// CheckTool handles the spackle_check MCP tool.
type CheckTool struct {
	opts []spackle.Option
}

// NewCheckTool creates a CheckTool
func NewCheckTool(opts ...spackle.Option) *CheckTool {
	return &CheckTool{opts: opts}
}

// Definition returns the MCP tool definition for spackle_check.
func (t *CheckTool) Definition() mcp.Tool {
	return mcp.NewTool("spackle_check",
		mcp.WithDescription("Validate a spackle project: manifest structure, needs graph and templates."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Path to the project directory or single-file project"),
		),
		mcp.WithObject("values",
			mcp.Description("Optional slot values to validate against the slot types, keyed by slot key"),
		),
		mcp.WithObject("hooks",
			mcp.Description("Optional hook toggles to validate, keyed by hook key"),
		),
	)
}

// Handle processes the spackle_check tool call.
func (t *CheckTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	if project == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}

	opts := t.opts
	args := req.GetArguments()
	if _, ok := args["values"]; ok {
		opts = append(append([]spackle.Option(nil), opts...), spackle.WithValues(stringMap(args["values"]), stringMap(args["hooks"])))
	} else if _, ok := args["hooks"]; ok {
		opts = append(append([]spackle.Option(nil), opts...), spackle.WithValues(nil, stringMap(args["hooks"])))
	}

	result, err := spackle.Check(project, opts...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultJSON(result)
}

// FillTool handles the spackle_fill MCP tool.
type FillTool struct {
	opts []spackle.Option
}

// NewFillTool creates a FillTool
func NewFillTool(opts ...spackle.Option) *FillTool {
	return &FillTool{opts: opts}
}

// Definition returns the MCP tool definition for spackle_fill.
func (t *FillTool) Definition() mcp.Tool {
	return mcp.NewTool("spackle_fill",
		mcp.WithDescription(
			"Generate a project from a spackle template into an output path, then run its hooks there. "+
				"Hook failures are reported per hook and do not fail the call.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Path to the project directory or single-file project"),
		),
		mcp.WithString("output",
			mcp.Required(),
			mcp.Description("Output directory (or file, for single-file projects)"),
		),
		mcp.WithObject("values",
			mcp.Description("Slot values keyed by slot key; strings, numbers and booleans are accepted"),
		),
		mcp.WithObject("hooks",
			mcp.Description("Toggles for optional hooks keyed by hook key"),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Allow writing into an existing output path (default: false)"),
		),
	)
}

// Handle processes the spackle_fill tool call.
func (t *FillTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	if project == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}
	output := req.GetString("output", "")
	if output == "" {
		return mcp.NewToolResultError("'output' is required"), nil
	}

	args := req.GetArguments()
	opts := append(append([]spackle.Option(nil), t.opts...), spackle.WithOverwrite(req.GetBool("overwrite", false)))

	result, err := spackle.Fill(ctx, project, stringMap(args["values"]), stringMap(args["hooks"]), output, opts...)
	if err != nil && result == nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultJSON(result)
}

// stringMap converts a JSON object argument into raw string values
func stringMap(v interface{}) map[string]string {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(obj))
	for k, val := range obj {
		switch x := val.(type) {
		case string:
			out[k] = x
		case float64:
			out[k] = strconv.FormatFloat(x, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(x)
		default:
			out[k] = fmt.Sprint(x)
		}
	}
	return out
}
