package cfgbuild

import (
	"strings"
	"unicode"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/doctordisrespect/narsil-mcp/internal/model"
)

// typeConstructors are pattern-position names that are never variable
// bindings: Option/Result variant constructors, boolean literals, and
// Self. Ported verbatim from is_type_constructor in the Rust original.
var typeConstructors = map[string]bool{
	"Some": true, "None": true,
	"Ok": true, "Err": true,
	"true": true, "false": true,
	"Self": true,
}

func isTypeConstructor(name string) bool {
	return typeConstructors[name]
}

// recordBindings extracts every variable binding introduced by pattern
// and attaches it to the CFG plus records a PatternBinding statement on
// blockID, using the given textual prefix ("if let ", "while let ", "for
// ", or "" for match arms) the same way the Rust original's
// process_if/while/for/match methods format their PatternBinding
// statement text.
func (b *builder) recordBindings(blockID int, pattern *tree_sitter.Node, prefix string) {
	var names []string
	b.extractBindingsRecursive(pattern, &names)
	if len(names) == 0 {
		return
	}
	patternText := snippet(b.text(pattern), 100)
	b.addStatement(blockID, prefix+patternText)

	r := nodeRangeOf(pattern)
	for _, name := range names {
		b.cfg.Bindings = append(b.cfg.Bindings, model.PatternBinding{
			Name:    name,
			BlockID: blockID,
			Range:   r,
			FromArm: patternText,
		})
	}
}

func nodeRangeOf(node *tree_sitter.Node) model.Range {
	start := node.StartPosition()
	end := node.EndPosition()
	return model.Range{
		StartLine: int(start.Row) + 1,
		EndLine:   int(end.Row) + 1,
		StartCol:  int(start.Column),
		EndCol:    int(end.Column),
	}
}

// extractBindingsRecursive walks a pattern AST to find every bound
// variable name, filtering out type constructors, ported from
// extract_bindings_recursive in cfg.rs. Generalized across grammars by
// matching on node-kind *substrings* ("pattern") the way the original
// does for its own sub-pattern kinds, rather than hardcoding one
// language's exact kind names.
func (b *builder) extractBindingsRecursive(node *tree_sitter.Node, out *[]string) {
	if node == nil {
		return
	}
	kind := node.Kind()

	switch {
	case kind == "identifier" || kind == "variable_name" || kind == "shorthand_field_identifier":
		name := b.text(node)
		if name != "" && !isTypeConstructor(name) && startsLowerOrUnderscore(name) {
			*out = append(*out, name)
		}

	case kind == "tuple_struct_pattern":
		// First identifier child is the constructor name; skip it.
		count := int(node.ChildCount())
		skippedFirst := false
		for i := 0; i < count; i++ {
			child := node.Child(uint(i))
			if child == nil {
				continue
			}
			if !skippedFirst && (child.Kind() == "identifier" || strings.Contains(child.Kind(), "identifier")) {
				skippedFirst = true
				continue
			}
			if strings.Contains(child.Kind(), "pattern") || child.Kind() == "identifier" {
				b.extractBindingsRecursive(child, out)
			}
		}

	case kind == "tuple_pattern" || kind == "slice_pattern" || kind == "array_pattern" || kind == "or_pattern":
		count := int(node.ChildCount())
		for i := 0; i < count; i++ {
			child := node.Child(uint(i))
			if child != nil && (strings.Contains(child.Kind(), "pattern") || child.Kind() == "identifier") {
				b.extractBindingsRecursive(child, out)
			}
		}

	case kind == "struct_pattern" || kind == "object_pattern":
		count := int(node.ChildCount())
		for i := 0; i < count; i++ {
			child := node.Child(uint(i))
			if child == nil {
				continue
			}
			if strings.Contains(child.Kind(), "pattern") || child.Kind() == "identifier" || child.Kind() == "field_pattern" || child.Kind() == "shorthand_field_identifier" {
				b.extractBindingsRecursive(child, out)
			}
		}

	case kind == "mut_pattern" || kind == "ref_pattern" || kind == "reference_pattern":
		count := int(node.ChildCount())
		for i := 0; i < count; i++ {
			b.extractBindingsRecursive(node.Child(uint(i)), out)
		}

	default:
		if strings.Contains(kind, "pattern") {
			count := int(node.ChildCount())
			for i := 0; i < count; i++ {
				b.extractBindingsRecursive(node.Child(uint(i)), out)
			}
		}
	}
}

func startsLowerOrUnderscore(name string) bool {
	r := []rune(name)
	if len(r) == 0 {
		return false
	}
	return r[0] == '_' || unicode.IsLower(r[0])
}

// findLetPattern locates the pattern node of an if-let / while-let
// construct: a let_condition/let_chain wrapper containing a pattern
// child, following find_if_let_pattern / find_while_let_pattern in the
// Rust original. Returns nil for plain if/while with no let-binding.
func (b *builder) findLetPattern(node *tree_sitter.Node) *tree_sitter.Node {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		if child.Kind() == "let_condition" || child.Kind() == "let_chain" {
			inner := int(child.ChildCount())
			for j := 0; j < inner; j++ {
				ic := child.Child(uint(j))
				if ic != nil && strings.Contains(ic.Kind(), "pattern") {
					return ic
				}
			}
		}
	}
	return nil
}

// findForLoopPattern locates the loop-variable pattern of a for
// expression: the child between the `for` keyword and the `in` keyword,
// following find_for_loop_pattern.
func (b *builder) findForLoopPattern(node *tree_sitter.Node) *tree_sitter.Node {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		k := child.Kind()
		if k == "in" {
			break
		}
		if strings.Contains(k, "pattern") || k == "identifier" {
			return child
		}
	}
	return nil
}

// findMatchArmPattern locates the pattern node of a match arm / switch
// case, following find_match_arm_pattern.
func (b *builder) findMatchArmPattern(armNode *tree_sitter.Node) *tree_sitter.Node {
	count := int(armNode.ChildCount())
	for i := 0; i < count; i++ {
		child := armNode.Child(uint(i))
		if child == nil {
			continue
		}
		k := child.Kind()
		if strings.Contains(k, "pattern") || k == "identifier" {
			return child
		}
	}
	return nil
}
