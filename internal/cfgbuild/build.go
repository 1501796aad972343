// Package cfgbuild walks a function's tree-sitter body and builds its
// ControlFlowGraph: basic blocks, edges, dominators, unreachable blocks,
// natural loops, and pattern bindings. Directly grounded on the Rust
// original's CfgBuilder in cfg.rs — the block-splitting rules, edge
// kinds, and pattern-binding extraction are ported statement by
// statement, generalized from Rust-only node kinds to the per-language
// Capabilities table in internal/langs so the same builder drives every
// supported grammar.
package cfgbuild

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/doctordisrespect/narsil-mcp/internal/errs"
	"github.com/doctordisrespect/narsil-mcp/internal/langs"
	"github.com/doctordisrespect/narsil-mcp/internal/model"
)

type loopFrame struct {
	header int
	exit   int
}

// builder holds the in-progress CFG plus the cursor-style state the
// Rust original keeps on CfgBuilder (current loop stack, next block id).
type builder struct {
	cfg       *model.ControlFlowGraph
	caps      langs.Capabilities
	src       []byte
	nextID    int
	loopStack []loopFrame
}

// Build constructs the ControlFlowGraph for the function body rooted at
// bodyNode, in language lang, named functionName in filePath. Mirrors
// CfgBuilder::build_from_function: creates an entry block, walks the
// body, sets the exit, then runs dominator and reachability analysis.
func Build(lang langs.Language, functionName, filePath string, bodyNode *tree_sitter.Node, src []byte) (*model.ControlFlowGraph, error) {
	if bodyNode == nil {
		return nil, errs.New(errs.NoFunctionBody, fmt.Sprintf("no function body found for %q", functionName))
	}
	caps, ok := langs.CapabilitiesFor(lang)
	if !ok {
		return nil, errs.New(errs.InvalidInput, fmt.Sprintf("no capability table for language %q", lang))
	}

	b := &builder{
		cfg:  model.NewControlFlowGraph(functionName, filePath),
		caps: caps,
		src:  src,
	}

	entry := b.createBlock("entry")
	b.cfg.EntryID = entry

	exit, err := b.processBlockNode(entry, bodyNode)
	if err != nil {
		return nil, err
	}
	b.setTerminator(exit, model.Terminator{Kind: model.TermReturn})
	b.cfg.ExitIDs = append(b.cfg.ExitIDs, exit)

	b.cfg.ComputeUnreachable()
	b.cfg.ComputeDominators()

	return b.cfg, nil
}

func (b *builder) createBlock(label string) int {
	id := b.nextID
	b.nextID++
	b.cfg.Blocks[id] = &model.BasicBlock{ID: id, Label: fmt.Sprintf("%s_%d", label, id)}
	return id
}

func (b *builder) addStatement(blockID int, stmt string) {
	blk := b.cfg.Blocks[blockID]
	if blk == nil {
		return
	}
	const maxLen = 100
	if len(stmt) > maxLen {
		stmt = stmt[:maxLen]
	}
	blk.Statements = append(blk.Statements, stmt)
}

func (b *builder) setTerminator(blockID int, term model.Terminator) {
	if blk := b.cfg.Blocks[blockID]; blk != nil {
		blk.Terminator = term
	}
}

func (b *builder) addEdge(from, to int, kind model.EdgeKind) {
	b.cfg.Edges = append(b.cfg.Edges, model.CfgEdge{From: from, To: to, Kind: kind})
}

func (b *builder) pushLoop(header, exit int) {
	b.loopStack = append(b.loopStack, loopFrame{header: header, exit: exit})
}

func (b *builder) popLoop() {
	if len(b.loopStack) > 0 {
		b.loopStack = b.loopStack[:len(b.loopStack)-1]
	}
}

func (b *builder) currentLoopHeader() (int, bool) {
	if len(b.loopStack) == 0 {
		return 0, false
	}
	top := b.loopStack[len(b.loopStack)-1]
	return top.header, true
}

func (b *builder) currentLoopExit() (int, bool) {
	if len(b.loopStack) == 0 {
		return 0, false
	}
	top := b.loopStack[len(b.loopStack)-1]
	return top.exit, true
}

func (b *builder) text(node *tree_sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Utf8Text(b.src)
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (b *builder) processBlockNode(current int, node *tree_sitter.Node) (int, error) {
	active := current
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		next, err := b.processStatement(active, child)
		if err != nil {
			return 0, err
		}
		active = next
	}
	return active, nil
}

func (b *builder) processStatement(current int, node *tree_sitter.Node) (int, error) {
	kind := node.Kind()
	caps := b.caps

	switch {
	case caps.Conditional.Has(kind):
		return b.processIf(current, node)
	case isWhileLike(kind, caps):
		return b.processWhile(current, node)
	case isForLike(kind, caps):
		return b.processFor(current, node)
	case kind == "loop_expression":
		return b.processLoop(current, node)
	case caps.Switch.Has(kind):
		return b.processSwitch(current, node)
	case caps.ReturnStmt.Has(kind):
		b.addStatement(current, "return "+snippet(b.text(node), 90))
		b.setTerminator(current, model.Terminator{Kind: model.TermReturn})
		b.cfg.ExitIDs = append(b.cfg.ExitIDs, current)
		return b.createBlock("after_return"), nil
	case caps.BreakStmt.Has(kind):
		b.addStatement(current, "break")
		b.setTerminator(current, model.Terminator{Kind: model.TermBreak})
		if exit, ok := b.currentLoopExit(); ok {
			b.addEdge(current, exit, model.EdgeLoopExit)
		}
		return b.createBlock("after_break"), nil
	case caps.ContinueStmt.Has(kind):
		b.addStatement(current, "continue")
		b.setTerminator(current, model.Terminator{Kind: model.TermContinue})
		if header, ok := b.currentLoopHeader(); ok {
			b.addEdge(current, header, model.EdgeLoopBack)
		}
		return b.createBlock("after_continue"), nil
	case caps.Block.Has(kind):
		return b.processBlockNode(current, node)
	default:
		txt := snippet(b.text(node), 100)
		if strings.TrimSpace(txt) != "" {
			b.addStatement(current, txt)
		}
		return current, nil
	}
}

func isWhileLike(kind string, caps langs.Capabilities) bool {
	return caps.Loop.Has(kind) && (strings.Contains(kind, "while"))
}

func isForLike(kind string, caps langs.Capabilities) bool {
	return caps.Loop.Has(kind) && (strings.Contains(kind, "for"))
}

func (b *builder) processIf(current int, node *tree_sitter.Node) (int, error) {
	condition := snippet(b.conditionText(node), 100)
	b.addStatement(current, "if "+condition)
	b.setTerminator(current, model.Terminator{Kind: model.TermBranch})

	thenBlock := b.createBlock("then")
	mergeBlock := b.createBlock("endif")

	b.addEdge(current, thenBlock, model.EdgeTrueBranch)

	if pattern := b.findLetPattern(node); pattern != nil {
		b.recordBindings(thenBlock, pattern, "if let ")
	}

	thenBody := findChildByKinds(node, b.caps.Block)
	if thenBody != nil {
		thenExit, err := b.processBlockNode(thenBlock, thenBody)
		if err != nil {
			return 0, err
		}
		b.addEdge(thenExit, mergeBlock, model.EdgeFallThrough)
	} else {
		b.addEdge(thenBlock, mergeBlock, model.EdgeFallThrough)
	}

	elseClause := findChildByKind(node, "else_clause", "alternative", "else")
	if elseClause != nil {
		elseBlock := b.createBlock("else")
		b.addEdge(current, elseBlock, model.EdgeFalseBranch)
		elseBody := elseClause
		if inner := findChildByKinds(elseClause, b.caps.Block); inner != nil {
			elseBody = inner
		}
		elseExit, err := b.processBlockNode(elseBlock, elseBody)
		if err != nil {
			return 0, err
		}
		b.addEdge(elseExit, mergeBlock, model.EdgeFallThrough)
	} else {
		b.addEdge(current, mergeBlock, model.EdgeFalseBranch)
	}

	return mergeBlock, nil
}

func (b *builder) processWhile(current int, node *tree_sitter.Node) (int, error) {
	condition := snippet(b.conditionText(node), 100)

	header := b.createBlock("while_header")
	b.addEdge(current, header, model.EdgeFallThrough)
	b.addStatement(header, "while "+condition)
	b.setTerminator(header, model.Terminator{Kind: model.TermBranch})

	bodyBlock := b.createBlock("while_body")
	exitBlock := b.createBlock("while_exit")
	b.cfg.Blocks[header].IsLoopHead = true

	b.pushLoop(header, exitBlock)
	b.addEdge(header, bodyBlock, model.EdgeTrueBranch)
	b.addEdge(header, exitBlock, model.EdgeFalseBranch)

	if pattern := b.findLetPattern(node); pattern != nil {
		b.recordBindings(bodyBlock, pattern, "while let ")
	}

	body := findChildByKinds(node, b.caps.Block)
	if body != nil {
		bodyExit, err := b.processBlockNode(bodyBlock, body)
		if err != nil {
			return 0, err
		}
		b.addEdge(bodyExit, header, model.EdgeLoopBack)
	} else {
		b.addEdge(bodyBlock, header, model.EdgeLoopBack)
	}

	b.popLoop()
	return exitBlock, nil
}

func (b *builder) processFor(current int, node *tree_sitter.Node) (int, error) {
	header := b.createBlock("for_header")
	b.addEdge(current, header, model.EdgeFallThrough)
	b.addStatement(header, "for loop")
	b.setTerminator(header, model.Terminator{Kind: model.TermLoop})

	bodyBlock := b.createBlock("for_body")
	exitBlock := b.createBlock("for_exit")
	b.cfg.Blocks[header].IsLoopHead = true

	b.pushLoop(header, exitBlock)
	b.addEdge(header, bodyBlock, model.EdgeTrueBranch)
	b.addEdge(header, exitBlock, model.EdgeFalseBranch)

	if pattern := b.findForLoopPattern(node); pattern != nil {
		b.recordBindings(bodyBlock, pattern, "for ")
	}

	body := findChildByKinds(node, b.caps.Block)
	if body != nil {
		bodyExit, err := b.processBlockNode(bodyBlock, body)
		if err != nil {
			return 0, err
		}
		b.addEdge(bodyExit, header, model.EdgeLoopBack)
	} else {
		b.addEdge(bodyBlock, header, model.EdgeLoopBack)
	}

	b.popLoop()
	return exitBlock, nil
}

func (b *builder) processLoop(current int, node *tree_sitter.Node) (int, error) {
	header := b.createBlock("loop_header")
	b.addEdge(current, header, model.EdgeFallThrough)
	b.addStatement(header, "loop")
	b.setTerminator(header, model.Terminator{Kind: model.TermLoop})

	bodyBlock := b.createBlock("loop_body")
	exitBlock := b.createBlock("loop_exit")
	b.cfg.Blocks[header].IsLoopHead = true

	b.pushLoop(header, exitBlock)
	b.addEdge(header, bodyBlock, model.EdgeFallThrough)

	body := findChildByKinds(node, b.caps.Block)
	if body != nil {
		bodyExit, err := b.processBlockNode(bodyBlock, body)
		if err != nil {
			return 0, err
		}
		b.addEdge(bodyExit, header, model.EdgeLoopBack)
	} else {
		b.addEdge(bodyBlock, header, model.EdgeLoopBack)
	}

	b.popLoop()
	return exitBlock, nil
}

func (b *builder) processSwitch(current int, node *tree_sitter.Node) (int, error) {
	condition := snippet(b.conditionText(node), 100)
	b.addStatement(current, "match "+condition)
	b.setTerminator(current, model.Terminator{Kind: model.TermBranch})

	merge := b.createBlock("match_end")

	count := int(node.ChildCount())
	armN := 0
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child == nil || !b.caps.SwitchArm.Has(child.Kind()) {
			continue
		}
		armN++
		armBlock := b.createBlock(fmt.Sprintf("match_arm_%d", armN))
		b.addEdge(current, armBlock, model.EdgeJump)

		if pattern := b.findMatchArmPattern(child); pattern != nil {
			b.recordBindings(armBlock, pattern, "")
		}

		body := findChildByKinds(child, b.caps.Block)
		if body != nil {
			armExit, err := b.processBlockNode(armBlock, body)
			if err != nil {
				return 0, err
			}
			b.addEdge(armExit, merge, model.EdgeFallThrough)
		} else {
			b.addEdge(armBlock, merge, model.EdgeFallThrough)
		}
	}

	return merge, nil
}

// conditionText returns the first non-block, non-keyword child's text as
// a best-effort stand-in for the node's condition expression.
func (b *builder) conditionText(node *tree_sitter.Node) string {
	if n := node.ChildByFieldName("condition"); n != nil {
		return b.text(n)
	}
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		if b.caps.Block.Has(child.Kind()) {
			continue
		}
		txt := b.text(child)
		if txt != "" && txt != "if" && txt != "while" && txt != "for" && txt != "match" {
			return txt
		}
	}
	return ""
}

func findChildByKind(node *tree_sitter.Node, kinds ...string) *tree_sitter.Node {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		for _, k := range kinds {
			if child.Kind() == k {
				return child
			}
		}
	}
	return nil
}

func findChildByKinds(node *tree_sitter.Node, set langs.NodeKindSet) *tree_sitter.Node {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child != nil && set.Has(child.Kind()) {
			return child
		}
	}
	return nil
}
