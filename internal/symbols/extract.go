// Package symbols walks a parsed tree-sitter tree and extracts the
// Symbol records: one Symbol per function,
// method, and type declaration, with its doc comment and visibility.
// Grounded on standardbeagle-lci's internal/core symbol-index plumbing
// for naming and on the Rust original's analyze_function for the
// language-agnostic walking shape.
package symbols

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/doctordisrespect/narsil-mcp/internal/langs"
	"github.com/doctordisrespect/narsil-mcp/internal/model"
)

// Extractor pulls Symbol records out of a parsed file for one language.
type Extractor struct {
	lang langs.Language
	caps langs.Capabilities
	src  []byte
}

// New returns an Extractor bound to lang. Returns an error if lang has no
// registered capability table (every langs.Language constant does).
func New(lang langs.Language, src []byte) (*Extractor, error) {
	caps, ok := langs.CapabilitiesFor(lang)
	if !ok {
		return nil, errNoCapabilities(lang)
	}
	return &Extractor{lang: lang, caps: caps, src: src}, nil
}

type errNoCapabilities langs.Language

func (e errNoCapabilities) Error() string {
	return "symbols: no capability table for language " + string(e)
}

// Extract walks root and returns every Symbol it finds, in document order.
func (x *Extractor) Extract(root *tree_sitter.Node, filePath string) []model.Symbol {
	var out []model.Symbol
	x.walk(root, "", &out, filePath)
	return out
}

func (x *Extractor) walk(node *tree_sitter.Node, container string, out *[]model.Symbol, filePath string) {
	if node == nil {
		return
	}
	kind := node.Kind()

	nextContainer := container
	switch {
	case x.caps.TypeDecl.Has(kind):
		name := x.declName(node)
		if name != "" {
			sym := model.Symbol{
				Kind:       model.KindClass,
				Name:       name,
				Container:  container,
				FilePath:   filePath,
				Range:      nodeRange(node),
				Visibility: x.visibility(name),
				DocComment: x.precedingComment(node),
			}
			if sym.Valid() {
				*out = append(*out, sym)
			}
			nextContainer = qualify(container, name)
		}
	case x.caps.MethodDecl.Has(kind) && container != "":
		name := x.declName(node)
		if name != "" {
			sym := model.Symbol{
				Kind:       model.KindMethod,
				Name:       name,
				Container:  container,
				FilePath:   filePath,
				Range:      nodeRange(node),
				Visibility: x.visibility(name),
				DocComment: x.precedingComment(node),
			}
			if sym.Valid() {
				*out = append(*out, sym)
			}
		}
	case x.caps.FunctionDecl.Has(kind):
		name := x.declName(node)
		if name != "" {
			kindTag := model.KindFunction
			if container != "" {
				kindTag = model.KindMethod
			}
			sym := model.Symbol{
				Kind:       kindTag,
				Name:       name,
				Container:  container,
				FilePath:   filePath,
				Range:      nodeRange(node),
				Visibility: x.visibility(name),
				DocComment: x.precedingComment(node),
			}
			if sym.Valid() {
				*out = append(*out, sym)
			}
		}
	}

	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		x.walk(child, nextContainer, out, filePath)
	}
}

// declName finds the first identifier-kind child naming node, following
// the convention every one of the grammars in internal/langs uses: a
// "name" field, or else the first direct identifier child.
func (x *Extractor) declName(node *tree_sitter.Node) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return n.Utf8Text(x.src)
	}
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child != nil && x.caps.Identifier.Has(child.Kind()) {
			return child.Utf8Text(x.src)
		}
	}
	return ""
}

// visibility applies the common cross-language convention: an
// upper-case leading letter (Go) or an explicit non-underscore,
// non-lower-snake leading char is treated as exported; a leading
// underscore is private; everything else is unknown (the language's own
// modifier keywords, e.g. `private`/`public`, are a finer-grained signal
// future work could add per-language).
func (x *Extractor) visibility(name string) model.Visibility {
	if name == "" {
		return model.VisibilityUnknown
	}
	r := rune(name[0])
	switch {
	case r == '_':
		return model.VisibilityPrivate
	case r >= 'A' && r <= 'Z':
		return model.VisibilityPublic
	default:
		return model.VisibilityUnknown
	}
}

// precedingComment returns the text of a comment node immediately
// preceding node among its siblings, or "" if none.
func (x *Extractor) precedingComment(node *tree_sitter.Node) string {
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
			if prev != nil && x.caps.Comment.Has(prev.Kind()) {
				return prev.Utf8Text(x.src)
			}
			return ""
		}
	}
	return ""
}

func qualify(container, name string) string {
	if container == "" {
		return name
	}
	return container + "." + name
}

func nodeRange(node *tree_sitter.Node) model.Range {
	start := node.StartPosition()
	end := node.EndPosition()
	return model.Range{
		StartLine: int(start.Row) + 1,
		EndLine:   int(end.Row) + 1,
		StartCol:  int(start.Column),
		EndCol:    int(end.Column),
	}
}
