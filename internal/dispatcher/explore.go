package dispatcher

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctordisrespect/narsil-mcp/internal/engine"
	"github.com/doctordisrespect/narsil-mcp/internal/errs"
)

func handleGetProjectStructure(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	dirs, err := e.ProjectStructure(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"directories": dirs})
}

func handleGetIncrementalStatus(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	status, err := e.GetIndexStatus(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"status": status, "watching": e.IsWatching(p.Repo)})
}

type symbolQueryParams struct {
	Repo   string `json:"repo"`
	Symbol string `json:"symbol"`
}

func handleFindReferences(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p symbolQueryParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	chunks, err := e.FindReferences(p.Repo, p.Symbol)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"chunks": chunks})
}

func handleFindSymbolUsages(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p symbolQueryParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	chunks, err := e.FindSymbolUsages(p.Repo, p.Symbol)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"chunks": chunks})
}

func handleGetDependencies(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	deps, err := e.Dependencies(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"dependencies": deps})
}

func handleGetExportMap(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	exports, err := e.GetExportMap(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"exports": exports})
}

func handleWorkspaceSymbolSearch(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p searchParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	syms, err := e.WorkspaceSymbolSearch(p.Repo, p.Query)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"symbols": syms})
}

func handleSearchChunks(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p searchParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	limit := p.Max
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	chunks, err := e.SearchChunks(p.Repo, p.Query, limit)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"chunks": chunks})
}

func handleGetChunkStats(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	stats, err := e.ChunkStats(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"by_chunk_type": stats})
}

type getChunksParams struct {
	Repo string `json:"repo"`
	Path string `json:"path"`
}

func handleGetChunks(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getChunksParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, errs.New(errs.InvalidInput, "path is required")
	}
	chunks, err := e.GetChunks(p.Repo, p.Path)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"chunks": chunks})
}

func handleGetImportGraph(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	edges, err := e.ImportGraph(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"edges": edges})
}

func handleFindCircularImports(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	cycles, err := e.FindCircularImports(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"cycles": cycles})
}
