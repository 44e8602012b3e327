package chunk

import (
	"strconv"
	"strings"
)

// extraMemberKinds are node kinds treated as emittable "members" when
// decomposing an oversized splittable node, on top of whatever is already
// in the language's TopLevelKinds set (methods and constructors are
// rarely top-level themselves, but they are exactly what spec §4.3 wants
// extracted from an oversized class/impl/trait body).
var extraMemberKinds = map[string]bool{
	"method_declaration":      true,
	"method_definition":       true,
	"constructor_declaration": true,
	"singleton_method":        true,
	"function_item":           true,
	"function_definition":     true,
}

// jsFamily marks the languages whose export_statement node
// needs unwrapping for naming/kind/split decisions.
var jsFamily = map[string]bool{"javascript": true, "typescript": true, "tsx": true, "jsx": true}

// ChunkFile parses file's content with the language identified by
// file.Language and emits one Chunk per top-level definition, splitting
// oversized splittable nodes into their member definitions.
func ChunkFile(p *Parser, registry *LanguageRegistry, file *File) ([]*Chunk, error) {
	config, ok := registry.ByName(file.Language)
	if !ok {
		return nil, nil
	}

	tree, err := p.Parse(file.Content, file.Language)
	if err != nil {
		return nil, err
	}
	if tree.Root == nil {
		return nil, nil
	}

	var chunks []*Chunk
	for _, top := range tree.Root.Children() {
		if !config.IsTopLevel(top.Kind) {
			continue
		}
		chunks = append(chunks, emitForTopLevel(top, tree.Source, file, config)...)
	}
	return chunks, nil
}

// emitForTopLevel handles one direct child of the parse root that is a
// recognized top-level definition kind, applying export/decorator/template
// unwrapping and oversize splitting.
func emitForTopLevel(outer *Node, source []byte, file *File, config *LanguageConfig) []*Chunk {
	inner := unwrapInner(outer, source, file.Language)
	if inner == nil {
		if kept := keepDefaultExport(outer, source, file.Language); kept != nil {
			inner = kept
		} else {
			return nil
		}
	}

	startLine, endLine := outer.LineSpan()
	oversized := (endLine - startLine + 1) > OversizeLines

	if oversized && config.IsSplittable(inner.Kind) {
		members := findMembers(inner, config)
		if len(members) > 0 {
			chunks := make([]*Chunk, 0, len(members))
			for _, m := range members {
				chunks = append(chunks, buildChunk(m, m, source, file))
			}
			return chunks
		}
		// No recognized member children: fall back to the whole node.
	}

	return []*Chunk{buildChunk(outer, inner, source, file)}
}

// unwrapInner walks into the inner declaration of an export statement
// (JS/TS/TSX), a decorated definition (Python), or a template declaration
// (C++). For any other outer kind, outer is its own inner.
func unwrapInner(outer *Node, source []byte, language string) *Node {
	switch {
	case jsFamily[language] && outer.Kind == "export_statement":
		return outer.FirstChildOfKind(
			"function_declaration", "class_declaration", "lexical_declaration",
			"variable_declaration", "interface_declaration", "type_alias_declaration",
		)
	case language == "python" && outer.Kind == "decorated_definition":
		return outer.FirstChildOfKind("function_definition", "class_definition")
	case language == "cpp" && outer.Kind == "template_declaration":
		return outer.FirstChildOfKind("function_definition", "class_specifier", "struct_specifier")
	default:
		return outer
	}
}

// keepDefaultExport handles "export default function ..." / "export
// default class ..." where no named inner declaration was found by
// unwrapInner (default exports of anonymous or already-named
// declarations alike): these are kept per spec §4.3's explicit carve-out.
func keepDefaultExport(outer *Node, source []byte, language string) *Node {
	if !jsFamily[language] || outer.Kind != "export_statement" {
		return nil
	}
	text := outer.Content(source)
	if !strings.Contains(text, "default") {
		return nil
	}
	if fn := outer.FirstChildOfKind("function_declaration", "function"); fn != nil {
		return fn
	}
	if cls := outer.FirstChildOfKind("class_declaration", "class"); cls != nil {
		return cls
	}
	return nil
}

// findMembers looks for member definitions directly among node's
// children, falling back to searching inside a recognized body-wrapper
// child (class_body, declaration_list, field_declaration_list,
// body_statement, block).
func findMembers(node *Node, config *LanguageConfig) []*Node {
	if direct := membersAmong(node.Children(), config); len(direct) > 0 {
		return direct
	}
	for _, c := range node.Children() {
		if bodyWrapperKinds[c.Kind] {
			if wrapped := membersAmong(c.Children(), config); len(wrapped) > 0 {
				return wrapped
			}
		}
	}
	return nil
}

func membersAmong(nodes []*Node, config *LanguageConfig) []*Node {
	var out []*Node
	for _, n := range nodes {
		if config.TopLevelKinds[n.Kind] || extraMemberKinds[n.Kind] {
			out = append(out, n)
		}
	}
	return out
}

// buildChunk assembles a Chunk. outer supplies the line range (and hence
// the snippet, which must include export/decorator/template prefix
// bytes); inner supplies the name and kind classification. outer==inner
// for plain (unwrapped) top-level nodes and for split-off members.
func buildChunk(outer, inner *Node, source []byte, file *File) *Chunk {
	startLine, endLine := outer.LineSpan()
	snippet := outer.Content(source)
	signature := firstLine(snippet)

	return &Chunk{
		Key:       chunkKey(file.RelPath, startLine, endLine),
		FilePath:  file.RelPath,
		Language:  file.Language,
		Kind:      normalizeKind(inner.Kind, file.Language),
		Name:      extractName(inner, source, file.Language),
		Signature: signature,
		Snippet:   snippet,
		StartLine: startLine,
		EndLine:   endLine,
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func chunkKey(filePath string, start, end int) string {
	return filePath + ":" + strconv.Itoa(start) + ":" + strconv.Itoa(end)
}
