// Package chunk parses source files with tree-sitter and emits one Chunk
// per top-level definition, decomposing oversized splittable nodes into
// their member definitions.
package chunk

// OversizeLines is the line-span threshold beyond which a splittable node
// is decomposed into its member definitions instead of emitted whole.
const OversizeLines = 150

// MaxSnippetChars bounds how much of a chunk's snippet is folded into the
// embedding input text (see internal/index).
const MaxSnippetChars = 500

// Chunk is the unit of retrieval: one top-level definition extracted from
// a source file.
type Chunk struct {
	// Key is the stable chunk key "{file_path}:{start_line}:{end_line}".
	Key       string
	FilePath  string
	Language  string
	Kind      string
	Name      string
	Signature string
	Snippet   string
	StartLine int
	EndLine   int
}

// File is a single scanned source file handed to the chunker.
type File struct {
	AbsPath  string
	RelPath  string
	Language string
	Content  []byte
}

// Point is a 0-indexed row/column position in the source.
type Point struct {
	Row    uint
	Column uint
}

// Node is a language-agnostic wrapper over a tree-sitter node.
type Node struct {
	Kind       string
	StartByte  uint
	EndByte    uint
	StartPoint Point
	EndPoint   Point
	named      []*Node
	all        []*Node
	fields     map[string]*Node
}

// Tree is a parsed file: its root node plus the source bytes it indexes
// into.
type Tree struct {
	Root     *Node
	Source   []byte
	Language string
}

// Content returns the verbatim source text spanned by n.
func (n *Node) Content(source []byte) string {
	if n == nil || n.StartByte >= n.EndByte || int(n.EndByte) > len(source) {
		return ""
	}
	return string(source[n.StartByte:n.EndByte])
}

// Children returns n's named children in order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return n.named
}

// AllChildren returns n's children including anonymous (unnamed) nodes,
// such as punctuation and keyword tokens. Some kind-extraction rules need
// to see these (e.g. a Zig test's string-literal name token).
func (n *Node) AllChildren() []*Node {
	if n == nil {
		return nil
	}
	return n.all
}

// FieldByName returns the child bound to the given grammar field name, if
// any (tree-sitter's ChildByFieldName).
func (n *Node) FieldByName(name string) *Node {
	if n == nil || n.fields == nil {
		return nil
	}
	return n.fields[name]
}

// FirstChildOfKind returns the first named child whose Kind matches any of
// kinds.
func (n *Node) FirstChildOfKind(kinds ...string) *Node {
	for _, c := range n.Children() {
		for _, k := range kinds {
			if c.Kind == k {
				return c
			}
		}
	}
	return nil
}

// ChildrenOfKind returns all named children whose Kind matches any of
// kinds.
func (n *Node) ChildrenOfKind(kinds ...string) []*Node {
	var out []*Node
	for _, c := range n.Children() {
		for _, k := range kinds {
			if c.Kind == k {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// LineSpan returns the inclusive 1-based start/end line numbers of n.
func (n *Node) LineSpan() (start, end int) {
	return int(n.StartPoint.Row) + 1, int(n.EndPoint.Row) + 1
}
