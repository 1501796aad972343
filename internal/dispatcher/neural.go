package dispatcher

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctordisrespect/narsil-mcp/internal/engine"
	"github.com/doctordisrespect/narsil-mcp/internal/errs"
)

func handleNeuralSearch(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p searchParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	limit := p.Max
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	results, err := e.NeuralSearch(p.Repo, p.Query, limit)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"results": results})
}

type snippetParams struct {
	Repo    string `json:"repo"`
	Snippet string `json:"snippet"`
	Max     int    `json:"max"`
}

func handleFindSimilarCode(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p snippetParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if p.Snippet == "" {
		return nil, errs.New(errs.InvalidInput, "snippet is required")
	}
	limit := p.Max
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	results, err := e.FindSimilarCode(p.Repo, p.Snippet, limit)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"results": results})
}

func handleFindSimilarToSymbol(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p struct {
		Repo   string `json:"repo"`
		Symbol string `json:"symbol"`
		Max    int    `json:"max"`
	}
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	limit := p.Max
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	results, err := e.FindSimilarToSymbol(p.Repo, p.Symbol, limit)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"results": results})
}

func handleGetEmbeddingStats(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetEmbeddingStats(p.Repo); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleFindSemanticClones(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.FindSemanticClones(p.Repo); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}
