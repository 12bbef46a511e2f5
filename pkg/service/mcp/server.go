package mcp

import (
	"context"
	"encoding/json"

	"github.com/engram-dev/engram/pkg/model"
	"github.com/engram-dev/engram/pkg/usecase/memory"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server exposes the memory service as MCP tools for agent runtimes.
// Tool semantics are identical to the REST surface.
type Server struct {
	uc  *memory.UseCase
	srv *mcp.Server
}

// NewServer creates a new MCP server wrapping the given usecase
func NewServer(uc *memory.UseCase, version string) (*Server, error) {
	s := &Server{
		uc: uc,
		srv: mcp.NewServer(&mcp.Implementation{
			Name:    "engram",
			Version: version,
		}, nil),
	}

	if err := s.registerTools(); err != nil {
		return nil, err
	}

	return s, nil
}

// Run serves MCP over stdio until the context is cancelled
func (s *Server) Run(ctx context.Context) error {
	if err := s.srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "MCP server failed")
	}
	return nil
}

// Connect attaches the server to an arbitrary transport, mainly for tests
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.srv.Connect(ctx, t, nil)
}

type createParams struct {
	Content string   `json:"content" jsonschema:"The text to remember"`
	Tags    []string `json:"tags,omitempty" jsonschema:"Optional short labels describing the memory"`
	Source  string   `json:"source,omitempty" jsonschema:"Provenance of the memory: user or auto (default: user)"`
}

type searchParams struct {
	Query string `json:"query" jsonschema:"Free-text query to search memories for"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default: 5, max: 50)"`
}

type listParams struct {
	Cursor string `json:"cursor,omitempty" jsonschema:"Continuation cursor from a previous list call"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of memories per page (default: 20)"`
}

type deleteParams struct {
	ID string `json:"id" jsonschema:"ID of the memory to delete"`
}

type resyncParams struct{}

func (s *Server) registerTools() error {
	if err := addTool(s.srv, "memory_create",
		"Store a new memory. The memory becomes searchable after the next index sync.",
		s.create); err != nil {
		return err
	}
	if err := addTool(s.srv, "memory_search",
		"Search stored memories semantically and return the most relevant ones with scores.",
		s.search); err != nil {
		return err
	}
	if err := addTool(s.srv, "memory_list",
		"List stored memories with cursor-based pagination.",
		s.list); err != nil {
		return err
	}
	if err := addTool(s.srv, "memory_delete",
		"Delete a memory by ID. Deleting an unknown ID succeeds.",
		s.delete); err != nil {
		return err
	}
	if err := addTool(s.srv, "memory_resync",
		"Trigger a rebuild of the search index over the current store contents.",
		s.resync); err != nil {
		return err
	}
	return nil
}

// addTool registers a typed tool handler with an explicit input schema
func addTool[P any](srv *mcp.Server, name, description string,
	handler func(context.Context, *mcp.CallToolRequest, P) (*mcp.CallToolResult, any, error),
) error {
	schema, err := jsonschema.For[P](nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build input schema", goerr.V("tool", name))
	}

	mcp.AddTool(srv, &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}, handler)

	return nil
}

func (s *Server) create(ctx context.Context, req *mcp.CallToolRequest, params createParams) (*mcp.CallToolResult, any, error) {
	source, err := model.ParseSource(params.Source)
	if err != nil {
		return nil, nil, err
	}

	out, err := s.uc.Remember(ctx, &memory.RememberInput{
		Content: params.Content,
		Tags:    params.Tags,
		Source:  source,
	})
	if err != nil {
		return nil, nil, err
	}

	return jsonResult(map[string]any{
		"memory": out.Memory,
		"sync":   out.Sync,
	})
}

func (s *Server) search(ctx context.Context, req *mcp.CallToolRequest, params searchParams) (*mcp.CallToolResult, any, error) {
	results, err := s.uc.Recall(ctx, &memory.RecallInput{
		Query: params.Query,
		Limit: params.Limit,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(results) == 0 {
		return textResult("No matching memories found."), nil, nil
	}

	return jsonResult(map[string]any{"results": results})
}

func (s *Server) list(ctx context.Context, req *mcp.CallToolRequest, params listParams) (*mcp.CallToolResult, any, error) {
	out, err := s.uc.List(ctx, &memory.ListInput{
		Cursor: params.Cursor,
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, nil, err
	}

	resp := map[string]any{"memories": out.Memories}
	if out.NextCursor != "" {
		resp["next_cursor"] = out.NextCursor
	}

	return jsonResult(resp)
}

func (s *Server) delete(ctx context.Context, req *mcp.CallToolRequest, params deleteParams) (*mcp.CallToolResult, any, error) {
	out, err := s.uc.Forget(ctx, model.MemoryID(params.ID))
	if err != nil {
		return nil, nil, err
	}

	return jsonResult(map[string]any{"sync": out.Sync})
}

func (s *Server) resync(ctx context.Context, req *mcp.CallToolRequest, params resyncParams) (*mcp.CallToolResult, any, error) {
	status, err := s.uc.Resync(ctx)
	if err != nil {
		return nil, nil, err
	}

	return jsonResult(status)
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to marshal tool result")
	}

	return textResult(string(data)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
