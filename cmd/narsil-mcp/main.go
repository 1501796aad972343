// Command narsil-mcp is the server entrypoint: it loads configuration,
// wires up the engine and its tool surface, and serves JSON-RPC over
// stdio via the MCP SDK: an
// urfave/cli App with a handful of global flags plus a single "serve"
// style action, a Before hook that loads configuration once, and
// signal-driven graceful shutdown around the blocking server Run call.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v2"

	"github.com/doctordisrespect/narsil-mcp/internal/configpkg"
	"github.com/doctordisrespect/narsil-mcp/internal/dispatcher"
	"github.com/doctordisrespect/narsil-mcp/internal/engine"
	"github.com/doctordisrespect/narsil-mcp/internal/errs"
	"github.com/doctordisrespect/narsil-mcp/internal/metadata"
	"github.com/doctordisrespect/narsil-mcp/internal/model"
	"github.com/doctordisrespect/narsil-mcp/internal/toolfilter"
)

const serverVersion = "0.1.0"

func main() {
	app := &cli.App{
		Name:  "narsil-mcp",
		Usage: "Code intelligence MCP server: parsing, search, and control-flow analysis over indexed repositories",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root to look for .narsil.yaml in",
				Value:   ".",
			},
			&cli.StringSliceFlag{
				Name:  "repo",
				Usage: "Repository to register at startup, name=path or bare path (repeatable)",
			},
			&cli.StringFlag{
				Name:  "preset",
				Usage: "Tool filter preset: minimal, balanced, full, security_focused",
			},
			&cli.StringFlag{
				Name:  "editor",
				Usage: "Editor identity used to resolve a preset when --preset is unset",
			},
			&cli.StringFlag{
				Name:  "index-path",
				Usage: "On-disk path for persisted index state",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Start a filesystem watcher for every registered repository",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose logging",
			},
			&cli.BoolFlag{
				Name:  "reindex",
				Usage: "Force a full reindex of every registered repository at startup",
			},
			&cli.BoolFlag{
				Name:  "call-graph",
				Usage: "Enable call-graph tools (get_call_graph, get_callers, get_callees, find_call_path)",
			},
			&cli.BoolFlag{
				Name:  "git",
				Usage: "Enable git-backed tools (blame, log, diff, churn)",
			},
			&cli.BoolFlag{
				Name:  "discover",
				Usage: "Enable repository auto-discovery tools",
			},
			&cli.BoolFlag{
				Name:  "persist",
				Usage: "Persist index state under --index-path across restarts",
			},
			&cli.BoolFlag{
				Name:  "lsp",
				Usage: "Enable LSP-backed tools (hover, type info, go-to-definition)",
			},
			&cli.BoolFlag{
				Name:  "streaming",
				Usage: "Enable streamed tool responses",
			},
			&cli.BoolFlag{
				Name:  "remote",
				Usage: "Enable remote-repository tools",
			},
			&cli.BoolFlag{
				Name:  "neural",
				Usage: "Enable embedding-backed neural search tools",
			},
			&cli.StringFlag{
				Name:  "neural-backend",
				Usage: "Embedding backend to use when --neural is set",
			},
			&cli.StringFlag{
				Name:  "neural-model",
				Usage: "Embedding model name to use when --neural is set",
			},
			&cli.BoolFlag{
				Name:  "http",
				Usage: "Also serve over HTTP in addition to stdio",
			},
			&cli.IntFlag{
				Name:  "http-port",
				Usage: "Port to listen on when --http is set",
				Value: 8787,
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "narsil-mcp: %v\n", err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	cfg, err := configpkg.Load(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	override := configpkg.Override{
		Preset:    c.String("preset"),
		Editor:    c.String("editor"),
		IndexPath: c.String("index-path"),
	}
	override.Apply(cfg)
	if repoFlags := c.StringSlice("repo"); len(repoFlags) > 0 {
		cfg.Repos = repoFlags
	}
	if err := configpkg.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	flags := model.EngineFlags{
		Verbose:       c.Bool("verbose"),
		Reindex:       c.Bool("reindex"),
		Watch:         c.Bool("watch"),
		CallGraph:     c.Bool("call-graph"),
		Git:           c.Bool("git"),
		Discover:      c.Bool("discover"),
		Persist:       c.Bool("persist"),
		LSP:           c.Bool("lsp"),
		Streaming:     c.Bool("streaming"),
		Remote:        c.Bool("remote"),
		Neural:        c.Bool("neural"),
		NeuralBackend: c.String("neural-backend"),
		NeuralModel:   c.String("neural-model"),
		HTTP:          c.Bool("http"),
		HTTPPort:      c.Int("http-port"),
	}
	if flags.Verbose {
		log.Printf("narsil-mcp: engine flags: %+v", flags)
	}

	e := engine.New()
	for _, spec := range cfg.Repos {
		name, path := splitRepoSpec(spec)
		repo, err := e.AddRepo(name, path)
		if err != nil {
			return fmt.Errorf("register repo %q: %w", spec, err)
		}
		if err := e.Reindex(repo.Name); err != nil {
			log.Printf("narsil-mcp: initial index of %s failed: %v", repo.Name, err)
		}
		if flags.Watch {
			if err := e.StartWatch(repo.Name); err != nil {
				log.Printf("narsil-mcp: watch %s failed: %v", repo.Name, err)
			}
		}
	}

	preset, ok := toolfilter.ParsePreset(string(cfg.Tools.Preset))
	if !ok {
		preset = toolfilter.PresetBalanced
	}
	fs := newFilterState(preset, cfg.Tools, flags)

	toolInfoByName := make(map[string]toolfilter.ToolInfo, len(metadata.ToolInfos()))
	for _, ti := range metadata.ToolInfos() {
		toolInfoByName[ti.Name] = ti
	}
	allowed := fs.apply()
	allowedNames := make(map[string]bool, len(allowed))
	for _, t := range allowed {
		allowedNames[t.Name] = true
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "narsil-mcp",
		Version: serverVersion,
	}, nil)

	// Every tool allowed by the startup-resolved filter is registered, and
	// the same filter is re-consulted on every call (see newFilterState):
	// a stale or cached client-side tool list can never reach a handler
	// the current filter would reject. See the DESIGN.md "tool filter"
	// entry for why this per-call re-check is the enforcement point
	// instead of a per-connection tools/list recomputation.
	for _, tool := range dispatcher.Tools() {
		if !allowedNames[tool.Name] {
			continue
		}
		toolName := tool.Name
		info := toolInfoByName[toolName]
		server.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if !fs.allowed(info) {
				return nil, fmt.Errorf("[jsonrpc %d] %w", errs.RPCCode(errs.FeatureDisabled),
					errs.New(errs.FeatureDisabled, fmt.Sprintf("tool %q is disabled by the active filter", toolName)))
			}
			return dispatcher.Dispatch(ctx, e, toolName, req)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(ctx, &mcp.StdioTransport{})
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("narsil-mcp: received %v, shutting down", sig)
		cancel()
		for _, repo := range e.ListRepos() {
			_ = e.StopWatch(repo.Name)
		}
		select {
		case <-errCh:
		case <-time.After(2 * time.Second):
		}
		return nil
	}
}

// splitRepoSpec parses a --repo value of the form "name=path" or a bare
// path (name derived from the path's base name).
func splitRepoSpec(spec string) (name, path string) {
	if before, after, ok := strings.Cut(spec, "="); ok {
		return before, after
	}
	return "", spec
}

// filterState is the process's tool-visibility filter, guarded by a
// mutex so it can be rebuilt without races if a future transport ever
// lets it be recomputed after startup.
//
// The MCP initialize handshake carries a ClientInfo name the tool
// filter's editor-to-preset mapping is specified to key off of, the way
// the Rust reference server re-derives its enabled set from
// client_info on every tools/list call. The go-sdk surface available
// here (modelcontextprotocol/go-sdk/mcp) only exposes
// ServerOptions.InitializedHandler and RootsListChangedHandler, both
// handed an *mcp.ServerSession with no accessor for the InitializeParams
// or ClientInfo the peer sent — there is no dynamic tools/list hook and
// no way to intercept or recompute the advertised tool set per
// connection. Lacking that hook, the filter is resolved once at
// startup from --editor/--preset (or the config file), which is the
// only client-identity signal this binary actually has before a
// transport-level API for it exists.
//
// What IS implementable without that hook is enforcement: allowed()
// is re-checked on every tool call, not just at registration time, so
// a tool a client only sees because of a stale cached list (or any
// future listing mechanism that forgets to filter) still can't be
// invoked once disabled.
type filterState struct {
	mu     sync.RWMutex
	filter *toolfilter.Filter
	perf   model.PerformanceConfig
}

func newFilterState(preset toolfilter.Preset, cfg model.ToolsConfig, flags model.EngineFlags) *filterState {
	return &filterState{
		filter: toolfilter.New(preset, cfg, flags),
		perf:   cfg.Performance,
	}
}

func (fs *filterState) apply() []toolfilter.ToolInfo {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return toolfilter.Apply(metadata.ToolInfos(), fs.filter, fs.perf)
}

func (fs *filterState) allowed(t toolfilter.ToolInfo) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.filter.Allowed(t)
}
