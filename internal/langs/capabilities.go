package langs

// NodeKindSet is a small lookup set over tree-sitter grammar node-kind
// strings, used to classify a node without a per-language switch at every
// call site.
type NodeKindSet map[string]bool

func kindSet(kinds ...string) NodeKindSet {
	s := make(NodeKindSet, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

func (s NodeKindSet) Has(kind string) bool { return s[kind] }

// Capabilities is the per-language node-kind table the symbol extractor,
// chunker, and CFG builder key off of:
// which grammar node kinds are function/method/type declarations, which
// are conditional/loop/switch constructs, which are the terminal
// statements (return/break/continue), and which carry pattern bindings
// (match arms, if-let/while-let, for-loop patterns). Node-kind names are
// taken from each grammar's own node-types.json, the same source the
// query strings in internal/parser/parser_language_setup.go draw
// their node names from.
type Capabilities struct {
	FunctionDecl  NodeKindSet
	MethodDecl    NodeKindSet
	TypeDecl      NodeKindSet // class/struct/trait/interface/enum declarations
	Conditional   NodeKindSet // if-like
	Loop          NodeKindSet // while/for/loop-like
	Switch        NodeKindSet // match/switch-like
	SwitchArm     NodeKindSet // case/match-arm nodes, pattern-bearing
	ReturnStmt    NodeKindSet
	BreakStmt     NodeKindSet
	ContinueStmt  NodeKindSet
	Block         NodeKindSet // braced/indented statement blocks
	Identifier    NodeKindSet
	Comment       NodeKindSet
}

var capTable = map[Language]Capabilities{
	Go: {
		FunctionDecl: kindSet("function_declaration"),
		MethodDecl:   kindSet("method_declaration"),
		TypeDecl:     kindSet("type_declaration", "type_spec", "interface_type", "struct_type"),
		Conditional:  kindSet("if_statement"),
		Loop:         kindSet("for_statement"),
		Switch:       kindSet("expression_switch_statement", "type_switch_statement", "select_statement"),
		SwitchArm:    kindSet("expression_case", "type_case", "communication_case"),
		ReturnStmt:   kindSet("return_statement"),
		BreakStmt:    kindSet("break_statement"),
		ContinueStmt: kindSet("continue_statement"),
		Block:        kindSet("block"),
		Identifier:   kindSet("identifier", "field_identifier", "type_identifier"),
		Comment:      kindSet("comment"),
	},
	Python: {
		FunctionDecl: kindSet("function_definition"),
		MethodDecl:   kindSet("function_definition"),
		TypeDecl:     kindSet("class_definition"),
		Conditional:  kindSet("if_statement"),
		Loop:         kindSet("while_statement", "for_statement"),
		Switch:       kindSet("match_statement"),
		SwitchArm:    kindSet("case_clause"),
		ReturnStmt:   kindSet("return_statement"),
		BreakStmt:    kindSet("break_statement"),
		ContinueStmt: kindSet("continue_statement"),
		Block:        kindSet("block"),
		Identifier:   kindSet("identifier"),
		Comment:      kindSet("comment"),
	},
	JavaScript: {
		FunctionDecl: kindSet("function_declaration", "generator_function_declaration", "arrow_function", "function_expression"),
		MethodDecl:   kindSet("method_definition"),
		TypeDecl:     kindSet("class_declaration"),
		Conditional:  kindSet("if_statement"),
		Loop:         kindSet("while_statement", "for_statement", "for_in_statement", "do_statement"),
		Switch:       kindSet("switch_statement"),
		SwitchArm:    kindSet("switch_case", "switch_default"),
		ReturnStmt:   kindSet("return_statement"),
		BreakStmt:    kindSet("break_statement"),
		ContinueStmt: kindSet("continue_statement"),
		Block:        kindSet("statement_block"),
		Identifier:   kindSet("identifier", "property_identifier", "shorthand_property_identifier"),
		Comment:      kindSet("comment"),
	},
	TypeScript: {
		FunctionDecl: kindSet("function_declaration", "function_signature", "arrow_function", "function_expression"),
		MethodDecl:   kindSet("method_definition", "method_signature"),
		TypeDecl:     kindSet("class_declaration", "interface_declaration", "type_alias_declaration", "enum_declaration"),
		Conditional:  kindSet("if_statement"),
		Loop:         kindSet("while_statement", "for_statement", "for_in_statement", "do_statement"),
		Switch:       kindSet("switch_statement"),
		SwitchArm:    kindSet("switch_case", "switch_default"),
		ReturnStmt:   kindSet("return_statement"),
		BreakStmt:    kindSet("break_statement"),
		ContinueStmt: kindSet("continue_statement"),
		Block:        kindSet("statement_block"),
		Identifier:   kindSet("identifier", "property_identifier", "type_identifier"),
		Comment:      kindSet("comment"),
	},
	Rust: {
		FunctionDecl: kindSet("function_item"),
		MethodDecl:   kindSet("function_item"), // distinguished by enclosing impl_item, see symbols package
		TypeDecl:     kindSet("struct_item", "enum_item", "trait_item", "impl_item", "type_item", "mod_item"),
		Conditional:  kindSet("if_expression", "if_let_expression"),
		Loop:         kindSet("while_expression", "while_let_expression", "for_expression", "loop_expression"),
		Switch:       kindSet("match_expression"),
		SwitchArm:    kindSet("match_arm"),
		ReturnStmt:   kindSet("return_expression"),
		BreakStmt:    kindSet("break_expression"),
		ContinueStmt: kindSet("continue_expression"),
		Block:        kindSet("block"),
		Identifier:   kindSet("identifier", "field_identifier", "type_identifier"),
		Comment:      kindSet("line_comment", "block_comment"),
	},
	Java: {
		FunctionDecl: kindSet("method_declaration"),
		MethodDecl:   kindSet("method_declaration", "constructor_declaration"),
		TypeDecl:     kindSet("class_declaration", "interface_declaration", "enum_declaration", "record_declaration"),
		Conditional:  kindSet("if_statement"),
		Loop:         kindSet("while_statement", "for_statement", "enhanced_for_statement", "do_statement"),
		Switch:       kindSet("switch_expression", "switch_statement"),
		SwitchArm:    kindSet("switch_block_statement_group", "switch_rule"),
		ReturnStmt:   kindSet("return_statement"),
		BreakStmt:    kindSet("break_statement"),
		ContinueStmt: kindSet("continue_statement"),
		Block:        kindSet("block"),
		Identifier:   kindSet("identifier", "type_identifier"),
		Comment:      kindSet("line_comment", "block_comment"),
	},
	Cpp: {
		FunctionDecl: kindSet("function_definition"),
		MethodDecl:   kindSet("function_definition"),
		TypeDecl:     kindSet("class_specifier", "struct_specifier", "enum_specifier", "union_specifier"),
		Conditional:  kindSet("if_statement"),
		Loop:         kindSet("while_statement", "for_statement", "for_range_loop", "do_statement"),
		Switch:       kindSet("switch_statement"),
		SwitchArm:    kindSet("case_statement"),
		ReturnStmt:   kindSet("return_statement"),
		BreakStmt:    kindSet("break_statement"),
		ContinueStmt: kindSet("continue_statement"),
		Block:        kindSet("compound_statement"),
		Identifier:   kindSet("identifier", "field_identifier", "type_identifier"),
		Comment:      kindSet("comment"),
	},
	CSharp: {
		FunctionDecl: kindSet("method_declaration"),
		MethodDecl:   kindSet("method_declaration", "constructor_declaration"),
		TypeDecl:     kindSet("class_declaration", "interface_declaration", "struct_declaration", "enum_declaration", "record_declaration"),
		Conditional:  kindSet("if_statement"),
		Loop:         kindSet("while_statement", "for_statement", "foreach_statement", "do_statement"),
		Switch:       kindSet("switch_statement", "switch_expression"),
		SwitchArm:    kindSet("switch_section", "switch_expression_arm"),
		ReturnStmt:   kindSet("return_statement"),
		BreakStmt:    kindSet("break_statement"),
		ContinueStmt: kindSet("continue_statement"),
		Block:        kindSet("block"),
		Identifier:   kindSet("identifier"),
		Comment:      kindSet("comment"),
	},
	PHP: {
		FunctionDecl: kindSet("function_definition"),
		MethodDecl:   kindSet("method_declaration"),
		TypeDecl:     kindSet("class_declaration", "interface_declaration", "trait_declaration", "enum_declaration"),
		Conditional:  kindSet("if_statement"),
		Loop:         kindSet("while_statement", "for_statement", "foreach_statement", "do_statement"),
		Switch:       kindSet("switch_statement"),
		SwitchArm:    kindSet("case_statement", "default_statement"),
		ReturnStmt:   kindSet("return_statement"),
		BreakStmt:    kindSet("break_statement"),
		ContinueStmt: kindSet("continue_statement"),
		Block:        kindSet("compound_statement"),
		Identifier:   kindSet("name", "variable_name"),
		Comment:      kindSet("comment"),
	},
}

// CapabilitiesFor returns the node-kind table for lang. Every Language
// constant in this package has an entry; callers needn't check ok unless
// they constructed a Language value by hand.
func CapabilitiesFor(lang Language) (Capabilities, bool) {
	c, ok := capTable[lang]
	return c, ok
}
