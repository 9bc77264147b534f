package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	appconfig "github.com/mendkit/mend/internal/adapters/outbound/config"
	"github.com/mendkit/mend/internal/adapters/outbound/detector"
	"github.com/mendkit/mend/internal/adapters/outbound/oracle"
	"github.com/mendkit/mend/internal/adapters/outbound/runlock"
	"github.com/mendkit/mend/internal/adapters/outbound/scanner"
	"github.com/mendkit/mend/internal/application"
	"github.com/mendkit/mend/internal/domain"
)

// registerTools registers all mend MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. mend_scan
	s.AddTool(
		mcplib.NewTool("mend_scan",
			mcplib.WithDescription("Scan the whole project and return issues grouped by file as JSON"),
		),
		handleScan(projectPath),
	)

	// 2. mend_scan_file
	s.AddTool(
		mcplib.NewTool("mend_scan_file",
			mcplib.WithDescription("Return issues found in a single file"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Relative path to the file to scan"),
			),
		),
		handleScanFile(projectPath),
	)

	// 3. mend_fix_file
	s.AddTool(
		mcplib.NewTool("mend_fix_file",
			mcplib.WithDescription("Run the patch-apply-verify remediation loop on a single file. Requires oracle credentials (MEND_API_KEY or OPENAI_API_KEY). The file is restored if no attempt strictly reduces its issue count."),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Relative path to the file to fix"),
			),
		),
		handleFixFile(projectPath),
	)
}

// newAggregator builds the scan pipeline shared by the read-only tools.
func newAggregator(projectPath string) (*application.AggregateService, domain.RunConfig, error) {
	cfg, err := appconfig.New().Load(projectPath)
	if err != nil {
		return nil, domain.RunConfig{}, err
	}
	logger := zap.NewNop()
	svc := application.NewAggregateService(
		scanner.New(cfg.ExcludeDirs, cfg.ExcludeExtensions),
		detector.ForConfig(cfg, logger), logger)
	return svc, cfg, nil
}

func handleScan(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc, _, err := newAggregator(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}
		byFile, total, err := svc.Scan(ctx, projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("scan failed: %v", err)), nil
		}
		return jsonResult(map[string]any{
			"total_issues": total,
			"files":        byFile,
		})
	}
}

func handleScanFile(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		svc, _, err := newAggregator(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}
		issues := svc.ScanFile(ctx, filepath.Join(projectPath, file))
		return jsonResult(map[string]any{
			"file":        file,
			"issue_count": len(issues),
			"issues":      issues,
		})
	}
}

func handleFixFile(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		svc, cfg, err := newAggregator(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}

		issues := svc.ScanFile(ctx, filepath.Join(projectPath, file))
		if len(issues) == 0 {
			return textResult(fmt.Sprintf("no issues found in %s", file)), nil
		}

		oracleClient, err := oracle.New(cfg.Oracle)
		if err != nil {
			return errorResult(fmt.Sprintf("configuring oracle: %v", err)), nil
		}

		remediator := application.NewRemediateService(
			oracleClient,
			application.NewVerifyService(detector.ForConfig(cfg, zap.NewNop())),
			runlock.NewWriter(),
			cfg,
			zap.NewNop(),
		)
		result := remediator.RemediateFile(ctx, projectPath, file, issues, domain.NewBatchHistory())
		return jsonResult(result)
	}
}

// jsonResult marshals v and returns it as text content.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
