// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes typegen tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/typegen/internal/apperr"
	"github.com/starford/typegen/internal/bindingservice"
)

// Server wraps the MCP server with typegen tools.
type Server struct {
	mcp *server.MCPServer
	svc *bindingservice.Service
}

// New creates a new MCP server with all typegen tools registered.
func New(svc *bindingservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"typegen",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_contracts",
		mcp.WithDescription("List contracts bound by the last generation run with their state and output files."),
	), s.listContracts)

	s.mcp.AddTool(mcp.NewTool("read_binding",
		mcp.WithDescription("Read the generated TypeScript typings or factory of a contract."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Contract name as listed by list_contracts")),
		mcp.WithString("kind",
			mcp.Description("Which file to read (default typings)"),
			mcp.Enum(bindingservice.KindTypings, bindingservice.KindFactory)),
	), s.readBinding)

	s.mcp.AddTool(mcp.NewTool("generate_bindings",
		mcp.WithDescription("Regenerate bindings from the artifact directory. "+
			"Unchanged artifacts skip the run unless force is set."),
		mcp.WithBoolean("force", mcp.Description("Run even if no artifact changed")),
	), s.generateBindings)

	s.mcp.AddTool(mcp.NewTool("get_output_layout",
		mcp.WithDescription("Returns the layout of the generated output directory and how to import it. "+
			"Call this before writing code against the bindings."),
	), s.getOutputLayout)

	// Resource: output layout.
	s.mcp.AddResource(
		mcp.NewResource(OutputLayoutURI, "Output Layout",
			mcp.WithResourceDescription("Files generated by typegen and how to import them."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readOutputLayoutResource,
	)

	return s
}

// Listen serves MCP over in/out until ctx is cancelled or in is closed.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listContracts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contracts, err := s.svc.ListContracts(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(contracts) == 0 {
		return mcp.NewToolResultText("no contracts generated yet"), nil
	}
	out, _ := json.MarshalIndent(contracts, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readBinding(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind := req.GetString("kind", bindingservice.KindTypings)

	b, err := s.svc.ReadBinding(ctx, name, kind)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s %s", name, kind)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(b.Content), nil
}

func (s *Server) generateBindings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.svc.Generate(ctx, req.GetBool("force", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"run_id":    report.Run.ID,
		"skipped":   report.Skipped,
		"written":   report.Written,
		"deleted":   report.Deleted,
		"unchanged": len(report.Unchanged),
		"contracts": len(report.Contracts),
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getOutputLayout(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(OutputLayout(s.svc.OutDir())), nil
}

func (s *Server) readOutputLayoutResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      OutputLayoutURI,
			MIMEType: "text/markdown",
			Text:     OutputLayout(s.svc.OutDir()),
		},
	}, nil
}
