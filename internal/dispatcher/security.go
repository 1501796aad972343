package dispatcher

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctordisrespect/narsil-mcp/internal/engine"
	"github.com/doctordisrespect/narsil-mcp/internal/errs"
)

func handleScanSecurity(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	findings, err := e.ScanSecurity(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"findings": findings})
}

func handleFindInjectionVulnerabilities(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	findings, err := e.FindInjectionVulnerabilities(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"findings": findings})
}

func handleCheckOWASPTop10(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	byCategory, err := e.CheckOWASPTop10(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"by_category": byCategory})
}

func handleCheckCWETop25(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	byCWE, err := e.CheckCWETop25(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"by_cwe": byCWE})
}

func handleGetSecuritySummary(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	summary, err := e.GetSecuritySummary(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(summary)
}

type ruleIDParams struct {
	RuleID string `json:"rule_id"`
}

func handleExplainVulnerability(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p ruleIDParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	rule, ok := e.ExplainVulnerability(p.RuleID)
	if !ok {
		return nil, errs.New(errs.NotFound, "unknown security rule id")
	}
	return jsonResult(rule)
}

func handleSuggestFix(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p ruleIDParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	fix, ok := e.SuggestFix(p.RuleID)
	if !ok {
		return nil, errs.New(errs.NotFound, "unknown security rule id")
	}
	return jsonResult(map[string]any{"suggestion": fix})
}
