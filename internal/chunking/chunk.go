// Package chunking slices a parsed file into AST-aligned retrieval
// units: one chunk per top-level function/method/type declaration,
// plus a module-level chunk for anything outside those boundaries.
// Imports are collected once per file and attached to every chunk
// rather than re-resolved per chunk.
package chunking

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/doctordisrespect/narsil-mcp/internal/langs"
	"github.com/doctordisrespect/narsil-mcp/internal/model"
)

// Chunker slices one parsed file into model.Chunk values.
type Chunker struct {
	lang langs.Language
	caps langs.Capabilities
	src  []byte
}

// New returns a Chunker bound to lang.
func New(lang langs.Language, src []byte) (*Chunker, error) {
	caps, ok := langs.CapabilitiesFor(lang)
	if !ok {
		return nil, errNoCapabilities(lang)
	}
	return &Chunker{lang: lang, caps: caps, src: src}, nil
}

type errNoCapabilities langs.Language

func (e errNoCapabilities) Error() string {
	return "chunking: no capability table for language " + string(e)
}

// Chunk walks root and returns the ordered chunk list for filePath.
func (c *Chunker) Chunk(root *tree_sitter.Node, filePath string) []model.Chunk {
	imports := c.collectImports(root)
	var boundaries []*tree_sitter.Node
	c.collectBoundaries(root, &boundaries)

	if len(boundaries) == 0 {
		return []model.Chunk{c.wholeFileChunk(root, filePath, imports)}
	}

	chunks := make([]model.Chunk, 0, len(boundaries))
	for i, node := range boundaries {
		chunks = append(chunks, c.chunkFor(node, filePath, i, imports))
	}
	return chunks
}

func (c *Chunker) collectBoundaries(node *tree_sitter.Node, out *[]*tree_sitter.Node) {
	if node == nil {
		return
	}
	kind := node.Kind()
	if c.caps.FunctionDecl.Has(kind) || c.caps.MethodDecl.Has(kind) || c.caps.TypeDecl.Has(kind) {
		*out = append(*out, node)
		return // don't descend into nested methods separately from their type decl
	}
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		c.collectBoundaries(node.Child(uint(i)), out)
	}
}

func (c *Chunker) chunkFor(node *tree_sitter.Node, filePath string, ordinal int, imports []string) model.Chunk {
	start := node.StartPosition()
	end := node.EndPosition()
	name := c.declName(node)
	ct := c.chunkType(node.Kind())

	return model.Chunk{
		ID:            model.ChunkID(filePath, ordinal, name),
		FilePath:      filePath,
		Content:       node.Utf8Text(c.src),
		StartLine:     int(start.Row) + 1,
		EndLine:       int(end.Row) + 1,
		Language:      string(c.lang),
		ChunkType:     ct,
		SymbolContext: name,
		DocComment:    c.precedingComment(node),
		Imports:       imports,
	}
}

func (c *Chunker) wholeFileChunk(root *tree_sitter.Node, filePath string, imports []string) model.Chunk {
	start := root.StartPosition()
	end := root.EndPosition()
	return model.Chunk{
		ID:        model.ChunkID(filePath, 0, ""),
		FilePath:  filePath,
		Content:   root.Utf8Text(c.src),
		StartLine: int(start.Row) + 1,
		EndLine:   int(end.Row) + 1,
		Language:  string(c.lang),
		ChunkType: model.ChunkModule,
		Imports:   imports,
	}
}

func (c *Chunker) chunkType(kind string) model.ChunkType {
	switch {
	case c.caps.MethodDecl.Has(kind):
		return model.ChunkMethod
	case c.caps.FunctionDecl.Has(kind):
		return model.ChunkFunction
	case c.caps.TypeDecl.Has(kind):
		return model.ChunkClass
	default:
		return model.ChunkOther
	}
}

func (c *Chunker) declName(node *tree_sitter.Node) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return n.Utf8Text(c.src)
	}
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child != nil && c.caps.Identifier.Has(child.Kind()) {
			return child.Utf8Text(c.src)
		}
	}
	return ""
}

func (c *Chunker) precedingComment(node *tree_sitter.Node) string {
	parent := node.Parent()
	if parent == nil {
		return ""
	}
	count := int(parent.ChildCount())
	for i := 0; i < count; i++ {
		if parent.Child(uint(i)) == node {
			if i == 0 {
				return ""
			}
			prev := parent.Child(uint(i - 1))
			if prev != nil && c.caps.Comment.Has(prev.Kind()) {
				return prev.Utf8Text(c.src)
			}
			return ""
		}
	}
	return ""
}

// collectImports scans the top level of the file for import-like
// statements by node-kind name convention (import_declaration,
// import_statement, use_declaration, preproc_include...) and returns
// their raw text, once per file.
func (c *Chunker) collectImports(root *tree_sitter.Node) []string {
	var imports []string
	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		child := root.Child(uint(i))
		if child == nil {
			continue
		}
		k := child.Kind()
		if strings.Contains(k, "import") || k == "use_declaration" || k == "preproc_include" {
			imports = append(imports, strings.TrimSpace(child.Utf8Text(c.src)))
		}
	}
	return imports
}
