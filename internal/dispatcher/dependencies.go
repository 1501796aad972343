package dispatcher

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctordisrespect/narsil-mcp/internal/engine"
	"github.com/doctordisrespect/narsil-mcp/internal/errs"
)

func handleGenerateSBOM(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	components, err := e.GenerateSBOM(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"components": components})
}

func handleCheckDependencies(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	components, err := e.CheckDependencies(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"dependencies": components})
}

func handleCheckLicenses(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.CheckLicenses(p.Repo); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

type findUpgradePathParams struct {
	Repo       string `json:"repo"`
	Dependency string `json:"dependency"`
}

func handleFindUpgradePath(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p findUpgradePathParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if p.Dependency == "" {
		return nil, errs.New(errs.InvalidInput, "dependency is required")
	}
	if err := e.FindUpgradePath(p.Repo, p.Dependency); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}
