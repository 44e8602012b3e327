package chunk

import (
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	tsc "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tscpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tsgo "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tsjava "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tsjs "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tsphp "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tspy "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tsruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tsrust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tsscala "github.com/tree-sitter/tree-sitter-scala/bindings/go"
	tsts "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	tszig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
)

// bodyWrapperKinds are the node kinds that wrap a splittable node's member
// definitions one level down (class bodies, block statements, etc). The
// chunker looks for members directly under a splittable node OR, failing
// that, under one of these wrapper children.
var bodyWrapperKinds = map[string]bool{
	"class_body":              true,
	"declaration_list":        true,
	"field_declaration_list":  true,
	"body_statement":          true,
	"block":                   true,
}

// LanguageConfig describes one language in the registry: its canonical
// name, recognized extensions, loadable parser artifact, and the
// top-level/splittable AST kind sets the chunker consults.
type LanguageConfig struct {
	Name            string
	Extensions      []string
	Grammar         *sitter.Language
	TopLevelKinds   map[string]bool
	SplittableKinds map[string]bool
}

// IsTopLevel reports whether kind is one of this language's top-level
// definition kinds.
func (c *LanguageConfig) IsTopLevel(kind string) bool { return c.TopLevelKinds[kind] }

// IsSplittable reports whether kind is one of this language's splittable
// kinds.
func (c *LanguageConfig) IsSplittable(kind string) bool { return c.SplittableKinds[kind] }

// LanguageRegistry maps file extensions to LanguageConfig. The grammar
// handles are process-wide and read-only after construction.
type LanguageRegistry struct {
	mu        sync.RWMutex
	configs   map[string]*LanguageConfig
	extToLang map[string]string
}

// NewLanguageRegistry builds a registry covering the thirteen languages
// named in spec §4.1: Rust, C, C++, Go, Python, Zig, Java, Scala,
// JavaScript, TypeScript, TSX, PHP, Ruby.
func NewLanguageRegistry() *LanguageRegistry {
	r := &LanguageRegistry{
		configs:   make(map[string]*LanguageConfig),
		extToLang: make(map[string]string),
	}

	r.register(&LanguageConfig{
		Name:       "go",
		Extensions: []string{".go"},
		Grammar:    sitter.NewLanguage(tsgo.Language()),
		TopLevelKinds: set(
			"function_declaration", "method_declaration", "type_declaration",
			"const_declaration", "var_declaration",
		),
		SplittableKinds: set(),
	})

	r.register(&LanguageConfig{
		Name:       "rust",
		Extensions: []string{".rs"},
		Grammar:    sitter.NewLanguage(tsrust.Language()),
		TopLevelKinds: set(
			"function_item", "struct_item", "enum_item", "trait_item",
			"impl_item", "mod_item", "const_item", "static_item",
			"macro_definition", "type_item",
		),
		SplittableKinds: set("impl_item", "trait_item", "mod_item"),
	})

	r.register(&LanguageConfig{
		Name:       "c",
		Extensions: []string{".c", ".h"},
		Grammar:    sitter.NewLanguage(tsc.Language()),
		TopLevelKinds: set(
			"function_definition", "declaration", "struct_specifier",
			"enum_specifier", "union_specifier", "type_definition",
		),
		SplittableKinds: set(),
	})

	r.register(&LanguageConfig{
		Name:       "cpp",
		Extensions: []string{".cpp", ".hpp", ".cc", ".cxx", ".hh"},
		Grammar:    sitter.NewLanguage(tscpp.Language()),
		TopLevelKinds: set(
			"function_definition", "class_specifier", "struct_specifier",
			"namespace_definition", "template_declaration", "enum_specifier",
			"declaration",
		),
		SplittableKinds: set("class_specifier", "struct_specifier", "namespace_definition"),
	})

	r.register(&LanguageConfig{
		Name:       "python",
		Extensions: []string{".py", ".pyi"},
		Grammar:    sitter.NewLanguage(tspy.Language()),
		TopLevelKinds: set(
			"function_definition", "class_definition", "decorated_definition",
			"assignment",
		),
		SplittableKinds: set("class_definition"),
	})

	r.register(&LanguageConfig{
		Name:       "zig",
		Extensions: []string{".zig"},
		Grammar:    sitter.NewLanguage(tszig.Language()),
		TopLevelKinds: set(
			"function_declaration", "variable_declaration", "test_declaration",
			"container_declaration",
		),
		SplittableKinds: set("container_declaration"),
	})

	r.register(&LanguageConfig{
		Name:       "java",
		Extensions: []string{".java"},
		Grammar:    sitter.NewLanguage(tsjava.Language()),
		TopLevelKinds: set(
			"class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration", "method_declaration", "constructor_declaration",
		),
		SplittableKinds: set(
			"class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration",
		),
	})

	r.register(&LanguageConfig{
		Name:       "scala",
		Extensions: []string{".scala"},
		Grammar:    sitter.NewLanguage(tsscala.Language()),
		TopLevelKinds: set(
			"class_definition", "object_definition", "trait_definition",
			"function_definition", "val_definition", "var_definition",
		),
		SplittableKinds: set("class_definition", "object_definition", "trait_definition"),
	})

	jsTop := set(
		"function_declaration", "class_declaration", "lexical_declaration",
		"variable_declaration", "export_statement",
	)
	r.register(&LanguageConfig{
		Name:            "javascript",
		Extensions:      []string{".js", ".mjs", ".jsx"},
		Grammar:         sitter.NewLanguage(tsjs.Language()),
		TopLevelKinds:   jsTop,
		SplittableKinds: set("class_declaration"),
	})

	tsTop := set(
		"function_declaration", "class_declaration", "lexical_declaration",
		"variable_declaration", "export_statement", "interface_declaration",
		"type_alias_declaration",
	)
	r.register(&LanguageConfig{
		Name:            "typescript",
		Extensions:      []string{".ts"},
		Grammar:         sitter.NewLanguage(tsts.LanguageTypescript()),
		TopLevelKinds:   tsTop,
		SplittableKinds: set("class_declaration"),
	})
	r.register(&LanguageConfig{
		Name:            "tsx",
		Extensions:      []string{".tsx"},
		Grammar:         sitter.NewLanguage(tsts.LanguageTSX()),
		TopLevelKinds:   tsTop,
		SplittableKinds: set("class_declaration"),
	})

	r.register(&LanguageConfig{
		Name:       "php",
		Extensions: []string{".php"},
		Grammar:    sitter.NewLanguage(tsphp.LanguagePHP()),
		TopLevelKinds: set(
			"function_definition", "class_declaration", "interface_declaration",
			"trait_declaration", "enum_declaration",
		),
		SplittableKinds: set("class_declaration", "interface_declaration", "trait_declaration"),
	})

	r.register(&LanguageConfig{
		Name:       "ruby",
		Extensions: []string{".rb"},
		Grammar:    sitter.NewLanguage(tsruby.Language()),
		TopLevelKinds: set(
			"method", "singleton_method", "class", "module", "assignment",
		),
		SplittableKinds: set("class", "module"),
	})

	return r
}

func set(kinds ...string) map[string]bool {
	m := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}

func (r *LanguageRegistry) register(c *LanguageConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[c.Name] = c
	for _, ext := range c.Extensions {
		r.extToLang[ext] = c.Name
	}
}

// ByExtension returns the language config for a file extension
// (case-insensitive, leading dot optional).
func (r *LanguageRegistry) ByExtension(ext string) (*LanguageConfig, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.extToLang[ext]
	if !ok {
		return nil, false
	}
	c, ok := r.configs[name]
	return c, ok
}

// ByName returns the language config by canonical name.
func (r *LanguageRegistry) ByName(name string) (*LanguageConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.configs[name]
	return c, ok
}

// GrammarFor returns the tree-sitter grammar handle for a language name.
func (r *LanguageRegistry) GrammarFor(name string) (*sitter.Language, bool) {
	c, ok := r.ByName(name)
	if !ok {
		return nil, false
	}
	return c.Grammar, true
}

// SupportedExtensions returns every registered extension.
func (r *LanguageRegistry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.extToLang))
	for ext := range r.extToLang {
		exts = append(exts, ext)
	}
	return exts
}

// defaultRegistry is built once at process start; it is read-only
// thereafter (spec §9's "process-wide, read-only" language cache).
var defaultRegistry = NewLanguageRegistry()

// DefaultRegistry returns the process-wide language registry.
func DefaultRegistry() *LanguageRegistry {
	return defaultRegistry
}
