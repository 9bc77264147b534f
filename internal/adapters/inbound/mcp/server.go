// Package mcp exposes mend's scan and fix operations over the Model
// Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMendMCPServer creates an MCP server with all mend tools registered.
// The projectPath is the root directory of the project to operate on.
func NewMendMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"mend",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, projectPath)

	return s
}
