package dispatcher

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctordisrespect/narsil-mcp/internal/engine"
)

type positionParams struct {
	Repo string `json:"repo"`
	Path string `json:"path"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

func handleGetHoverInfo(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p positionParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetHoverInfo(p.Repo, p.Path, p.Line, p.Col); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleGetTypeInfo(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p positionParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetTypeInfo(p.Repo, p.Path, p.Line, p.Col); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleGoToDefinition(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p positionParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GoToDefinition(p.Repo, p.Path, p.Line, p.Col); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}
