package chunk

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser wraps tree-sitter for AST parsing. A Parser is cheap to
// construct; callers create one per call rather than sharing across
// goroutines.
type Parser struct {
	registry *LanguageRegistry
}

// NewParser creates a parser bound to the default language registry.
func NewParser() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

// NewParserWithRegistry creates a parser bound to a custom registry.
func NewParserWithRegistry(registry *LanguageRegistry) *Parser {
	return &Parser{registry: registry}
}

// Parse parses source and returns our Tree wrapper.
func (p *Parser) Parse(source []byte, language string) (*Tree, error) {
	tsLang, ok := p.registry.GrammarFor(language)
	if !ok {
		return nil, fmt.Errorf("chunk: unsupported language %q", language)
	}

	sp := sitter.NewParser()
	defer sp.Close()

	if err := sp.SetLanguage(tsLang); err != nil {
		return nil, fmt.Errorf("chunk: set language %q: %w", language, err)
	}

	tree := sp.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("chunk: parse produced nil tree for language %q", language)
	}
	defer tree.Close()

	root := convertNode(tree.RootNode())
	return &Tree{Root: root, Source: source, Language: language}, nil
}

// fieldNamesOfInterest lists the grammar field names the name-extraction
// rules in names.go look up via FieldByName. Tree-sitter grammars expose
// dozens of fields per node kind; we only materialize the handful the
// chunker actually consults.
var fieldNamesOfInterest = []string{
	"name", "declarator", "type", "trait", "pattern", "body", "receiver", "value",
	"object", "left",
}

// convertNode eagerly converts a *sitter.Node subtree into our own Node
// wrapper.
func convertNode(tn *sitter.Node) *Node {
	if tn == nil {
		return nil
	}

	n := &Node{
		Kind:      tn.Kind(),
		StartByte: tn.StartByte(),
		EndByte:   tn.EndByte(),
		StartPoint: Point{
			Row:    tn.StartPosition().Row,
			Column: tn.StartPosition().Column,
		},
		EndPoint: Point{
			Row:    tn.EndPosition().Row,
			Column: tn.EndPosition().Column,
		},
	}

	count := int(tn.ChildCount())
	n.all = make([]*Node, 0, count)
	n.named = make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		child := tn.Child(uint(i))
		if child == nil {
			continue
		}
		cn := convertNode(child)
		n.all = append(n.all, cn)
		if child.IsNamed() {
			n.named = append(n.named, cn)
		}
	}

	n.fields = make(map[string]*Node, len(fieldNamesOfInterest))
	for _, field := range fieldNamesOfInterest {
		if fc := tn.ChildByFieldName(field); fc != nil {
			n.fields[field] = convertNode(fc)
		}
	}

	return n
}
