package dispatcher

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctordisrespect/narsil-mcp/internal/engine"
)

func handleGetCallGraph(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p symbolQueryParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	graph, err := e.GetCallGraph(p.Repo, p.Symbol)
	if err != nil {
		return nil, err
	}
	return jsonResult(graph)
}

func handleGetCallers(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p symbolQueryParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	callers, err := e.GetCallers(p.Repo, p.Symbol)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"callers": callers})
}

func handleGetCallees(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p symbolQueryParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	callees, err := e.GetCallees(p.Repo, p.Symbol)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"callees": callees})
}

type findCallPathParams struct {
	Repo     string `json:"repo"`
	From     string `json:"from"`
	To       string `json:"to"`
	MaxDepth int    `json:"max_depth"`
}

func handleFindCallPath(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p findCallPathParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	path, err := e.FindCallPath(p.Repo, p.From, p.To, p.MaxDepth)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"path": path})
}
