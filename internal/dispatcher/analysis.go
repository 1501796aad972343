package dispatcher

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctordisrespect/narsil-mcp/internal/engine"
)

func handleGetComplexity(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getControlFlowParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	result, err := e.GetComplexity(p.Repo, p.File, p.Symbol)
	if err != nil {
		return nil, err
	}
	return jsonResult(result)
}

type limitedRepoParams struct {
	Repo string `json:"repo"`
	Max  int    `json:"max"`
}

func handleGetFunctionHotspots(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p limitedRepoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	hotspots, err := e.GetFunctionHotspots(p.Repo, p.Max)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"hotspots": hotspots})
}

func handleFindDeadCode(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	blocks, err := e.FindDeadCode(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"dead_blocks": blocks})
}

func handleGetDataFlow(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getControlFlowParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	defs, err := e.GetDataFlow(p.Repo, p.File, p.Symbol)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"definitions": defs})
}

func handleGetReachingDefinitions(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getControlFlowParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	defs, err := e.GetReachingDefinitions(p.Repo, p.File, p.Symbol)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"by_name": defs})
}

func handleFindUninitialized(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getControlFlowParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	uses, err := e.FindUninitialized(p.Repo, p.File, p.Symbol)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"uninitialized": uses})
}

func handleFindDeadStores(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getControlFlowParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	stores, err := e.FindDeadStores(p.Repo, p.File, p.Symbol)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"dead_stores": stores})
}

func handleInferTypes(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getControlFlowParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	hints, err := e.InferTypes(p.Repo, p.File, p.Symbol)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"types": hints})
}

func handleCheckTypeErrors(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getControlFlowParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.CheckTypeErrors(p.Repo, p.File, p.Symbol); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"errors": []string{}})
}

func handleTraceTaint(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getControlFlowParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.TraceTaint(p.Repo, p.File, p.Symbol); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleGetTaintSources(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetTaintSources(p.Repo); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}

func handleGetTypedTaintFlow(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getControlFlowParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.GetTypedTaintFlow(p.Repo, p.File, p.Symbol); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{})
}
