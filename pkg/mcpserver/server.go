// Package mcpserver exposes Info, Check and Fill as MCP tools so that
// assistants can scaffold projects over the stdio transport.
package mcpserver

import (
	"github.com/A2-ai/spackle/pkg/spackle"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is announced to MCP clients
const ServerName = "spackle"

// New creates the MCP server with every tool registered. opts are passed
// to each facade call.
func New(version string, opts ...spackle.Option) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	infoTool := NewInfoTool(opts...)
	s.AddTool(infoTool.Definition(), infoTool.Handle)

	checkTool := NewCheckTool(opts...)
	s.AddTool(checkTool.Definition(), checkTool.Handle)

	fillTool := NewFillTool(opts...)
	s.AddTool(fillTool.Definition(), fillTool.Handle)

	return s
}

// Serve runs the server on stdin and stdout until the client disconnects
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const instructions = `spackle generates projects from template directories.
Call spackle_info first to learn the slots (typed values) and hooks (post-generation commands) of a project,
then spackle_fill with values for the slots you want enabled. spackle_check reports manifest and template problems.`
