package codeorg

import "strings"

// AST is the raw parsed form of a student program, as stored in a problem's
// sources file. Nodes carry a block type (e.g. "maze_moveForward") and,
// optionally, editor styling metadata in Color.
type AST struct {
	Type     string
	Color    string
	Children []*AST
}

// RemoveColors strips the presentation-only styling metadata from the whole
// tree, in place. The structure of the tree is unchanged.
func (a *AST) RemoveColors() {
	if a == nil {
		return
	}
	a.Color = ""
	for _, child := range a.Children {
		child.RemoveColors()
	}
}

// Flatten returns the node types of the tree in pre-order, one token per node.
func (a *AST) Flatten() []string {
	var tokens []string
	a.flattenInto(&tokens)
	return tokens
}

func (a *AST) flattenInto(tokens *[]string) {
	if a == nil {
		return
	}
	if a.Type != "" {
		*tokens = append(*tokens, a.Type)
	}
	for _, child := range a.Children {
		child.flattenInto(tokens)
	}
}

// Canonical returns the canonical string form of the program: styling
// stripped, tree flattened, tokens joined by single spaces. It is the key
// used for frequency counting across the corpus.
func (a *AST) Canonical() string {
	a.RemoveColors()
	return strings.Join(a.Flatten(), " ")
}
