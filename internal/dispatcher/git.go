package dispatcher

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctordisrespect/narsil-mcp/internal/engine"
	"github.com/doctordisrespect/narsil-mcp/internal/errs"
)

type pathParams struct {
	Repo string `json:"repo"`
	Path string `json:"path"`
}

func handleGetBlame(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p pathParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetBlame(p.Repo, p.Path); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleGetFileHistory(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p pathParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetFileHistory(p.Repo, p.Path); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleGetRecentChanges(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetRecentChanges(p.Repo); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleGetHotspots(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetHotspots(p.Repo); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleGetContributors(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetContributors(p.Repo); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

type commitParams struct {
	Repo   string `json:"repo"`
	Commit string `json:"commit"`
}

func handleGetCommitDiff(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p commitParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if p.Commit == "" {
		return nil, errs.New(errs.InvalidInput, "commit is required")
	}
	if err := e.GetCommitDiff(p.Repo, p.Commit); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleGetSymbolHistory(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p symbolQueryParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetSymbolHistory(p.Repo, p.Symbol); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleGetBranchInfo(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetBranchInfo(p.Repo); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleGetModifiedFiles(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetModifiedFiles(p.Repo); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}
