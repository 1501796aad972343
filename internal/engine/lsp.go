package engine

import (
	"fmt"

	"github.com/doctordisrespect/narsil-mcp/internal/errs"
)

// LSP-backed tools need a running language server to answer hover/type/
// definition queries with real semantic information; tree-sitter gives
// this server a syntax tree, not a type checker. Gated behind the "lsp"
// feature flag (model.EngineFlags.LSP / --lsp).
func lspUnsupported(op string) error {
	return errs.New(errs.Transient, fmt.Sprintf("%s requires a language server client this server does not embed", op))
}

func (e *Engine) GetHoverInfo(repoName, path string, line, col int) error {
	return lspUnsupported("get_hover_info")
}

func (e *Engine) GetTypeInfo(repoName, path string, line, col int) error {
	return lspUnsupported("get_type_info")
}

func (e *Engine) GoToDefinition(repoName, path string, line, col int) error {
	return lspUnsupported("go_to_definition")
}
