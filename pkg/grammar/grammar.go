// Package grammar declares the opaque "grammar oracle" interfaces the
// identifier analyzer (pkg/analyzer) drives. The actual tree-sitter-backed
// parser is an external collaborator outside this repository's scope;
// callers provide their own Provider implementation (typically a thin
// wrapper around a tree-sitter grammar) and this package only describes the
// shape analyzer needs.
package grammar

// Position is a zero-based row/column location in source text.
type Position struct {
	Row    int
	Column int
}

// Node is a single node of a parsed syntax tree. IsNamed distinguishes
// semantically meaningful nodes (identifiers, string literals, comments)
// from anonymous punctuation/keyword nodes a grammar emits purely for
// structure.
type Node interface {
	Kind() string
	IsNamed() bool
	StartPosition() Position
	EndPosition() Position
	Text() []byte
	Children() []Node
}

// Tree is a parsed syntax tree rooted at a single Node.
type Tree interface {
	Root() Node
}

// Parser parses a byte slice of source text into a Tree for one language.
type Parser interface {
	Parse(source []byte) (Tree, error)
}

// Provider resolves the right Parser for a file, keyed by a language
// identifier (typically derived from a file extension). A nil, false
// return signals that no grammar is available and the caller should fall
// back to plain-text line scanning.
type Provider interface {
	ParserFor(language string) (Parser, bool)
}
