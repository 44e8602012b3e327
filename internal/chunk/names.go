package chunk

import "strings"

// extractName applies spec §4.3's name-extraction rules in order,
// falling through to the generic field/child lookup when a
// language-specific rule doesn't apply or produces nothing.
func extractName(n *Node, source []byte, language string) string {
	switch language {
	case "ruby":
		if n.Kind == "singleton_method" {
			name := n.FieldByName("name")
			obj := n.FieldByName("object")
			if name != nil {
				if obj != nil {
					return obj.Content(source) + "." + name.Content(source)
				}
				return name.Content(source)
			}
		}
		if n.Kind == "assignment" {
			if lhs := n.FieldByName("left"); lhs != nil {
				return strings.TrimSpace(lhs.Content(source))
			}
		}

	case "c":
		if n.Kind == "function_definition" {
			if decl := n.FieldByName("declarator"); decl != nil {
				if inner := decl.FieldByName("declarator"); inner != nil {
					if s := strings.TrimSpace(inner.Content(source)); s != "" {
						return s
					}
				}
				return strings.TrimSpace(decl.Content(source))
			}
		}
		if n.Kind == "type_definition" {
			if t := n.FirstChildOfKind("type_identifier"); t != nil {
				return t.Content(source)
			}
		}

	case "go":
		switch n.Kind {
		case "method_declaration":
			name := n.FieldByName("name")
			if name == nil {
				break
			}
			if recv := n.FieldByName("receiver"); recv != nil {
				if recvType := goReceiverTypeName(recv, source); recvType != "" {
					return recvType + "." + name.Content(source)
				}
			}
			return name.Content(source)
		case "type_declaration":
			if spec := n.FirstChildOfKind("type_spec"); spec != nil {
				if nf := spec.FieldByName("name"); nf != nil {
					return nf.Content(source)
				}
				if id := spec.FirstChildOfKind("type_identifier"); id != nil {
					return id.Content(source)
				}
			}
		case "const_declaration":
			if spec := n.FirstChildOfKind("const_spec"); spec != nil {
				if id := spec.FirstChildOfKind("identifier"); id != nil {
					return id.Content(source)
				}
			}
		case "var_declaration":
			if spec := n.FirstChildOfKind("var_spec"); spec != nil {
				if id := spec.FirstChildOfKind("identifier"); id != nil {
					return id.Content(source)
				}
			}
		}

	case "scala":
		if n.Kind == "val_definition" || n.Kind == "var_definition" {
			if p := n.FieldByName("pattern"); p != nil {
				return strings.TrimSpace(p.Content(source))
			}
		}

	case "zig":
		if n.Kind == "variable_declaration" {
			if id := n.FirstChildOfKind("identifier"); id != nil {
				return id.Content(source)
			}
		}
		if n.Kind == "test_declaration" {
			for _, c := range n.AllChildren() {
				if strings.Contains(c.Kind, "string") {
					return strings.Trim(c.Content(source), `"`)
				}
			}
		}

	case "rust":
		if n.Kind == "impl_item" {
			typeField := n.FieldByName("type")
			if typeField == nil {
				break
			}
			if traitField := n.FieldByName("trait"); traitField != nil {
				return traitField.Content(source) + " for " + typeField.Content(source)
			}
			return typeField.Content(source)
		}

	case "javascript", "typescript", "tsx", "jsx":
		if n.Kind == "lexical_declaration" || n.Kind == "variable_declaration" {
			if d := n.FirstChildOfKind("variable_declarator"); d != nil {
				if nf := d.FieldByName("name"); nf != nil {
					return nf.Content(source)
				}
				if id := d.FirstChildOfKind("identifier"); id != nil {
					return id.Content(source)
				}
			}
		}
	}

	// Generic: first non-empty of name, identifier, type_identifier fields/children.
	if nf := n.FieldByName("name"); nf != nil {
		if s := strings.TrimSpace(nf.Content(source)); s != "" {
			return s
		}
	}
	if id := n.FirstChildOfKind("identifier"); id != nil {
		if s := strings.TrimSpace(id.Content(source)); s != "" {
			return s
		}
	}
	if id := n.FirstChildOfKind("type_identifier"); id != nil {
		if s := strings.TrimSpace(id.Content(source)); s != "" {
			return s
		}
	}
	return ""
}

// goReceiverTypeName extracts the receiver type name from a Go method's
// receiver parameter_list, unwrapping a leading pointer ("*T" -> "T").
func goReceiverTypeName(receiver *Node, source []byte) string {
	for _, c := range receiver.Children() {
		if c.Kind == "parameter_declaration" {
			if t := c.FieldByName("type"); t != nil {
				return strings.TrimPrefix(strings.TrimSpace(t.Content(source)), "*")
			}
			if t := c.FirstChildOfKind("type_identifier", "pointer_type"); t != nil {
				return strings.TrimPrefix(strings.TrimSpace(t.Content(source)), "*")
			}
		}
	}
	return ""
}

// normalizeKind maps a raw AST node kind to the normalized kind set in
// spec §3: exact matches for language-specific variant kinds first,
// then substring matches, falling back to the raw kind string.
func normalizeKind(rawKind, language string) string {
	switch rawKind {
	case "namespace_definition":
		return "namespace"
	case "template_declaration":
		return "template"
	case "test_declaration":
		return "test"
	case "impl_item":
		return "impl"
	case "trait_item", "trait_definition", "trait_declaration":
		return "trait"
	case "container_declaration":
		return "struct"
	case "record_declaration":
		return "record"
	case "constructor_declaration":
		return "constructor"
	case "object_definition":
		return "object"
	case "type_declaration", "type_item", "type_alias_declaration", "type_definition":
		return "type"
	case "const_declaration", "const_item":
		return "const"
	case "static_item":
		return "static"
	case "var_declaration", "variable_declaration", "val_definition", "var_definition",
		"lexical_declaration", "assignment":
		return "variable"
	case "singleton_method":
		return "method"
	case "declaration":
		return "declaration"
	}

	switch {
	case strings.Contains(rawKind, "function"):
		return "function"
	case strings.Contains(rawKind, "struct"):
		return "struct"
	case strings.Contains(rawKind, "enum"):
		return "enum"
	case strings.Contains(rawKind, "impl"):
		return "impl"
	case strings.Contains(rawKind, "trait"):
		return "trait"
	case strings.Contains(rawKind, "class"):
		return "class"
	case strings.Contains(rawKind, "method"):
		return "method"
	case strings.Contains(rawKind, "interface"):
		return "interface"
	case strings.Contains(rawKind, "macro"):
		return "macro"
	case strings.Contains(rawKind, "mod"):
		return "module"
	}

	return rawKind
}
