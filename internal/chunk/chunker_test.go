package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkFile_Go_OneChunkPerTopLevelDeclaration(t *testing.T) {
	source := `package main

import "fmt"

func Hello() {
	fmt.Println("Hello")
}

type Greeter struct {
	Name string
}

func (g *Greeter) Greet() string {
	return "hi " + g.Name
}
`
	p := NewParser()
	registry := DefaultRegistry()

	chunks, err := ChunkFile(p, registry, &File{
		AbsPath:  "/repo/main.go",
		RelPath:  "main.go",
		Language: "go",
		Content:  []byte(source),
	})
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "function", chunks[0].Kind)
	assert.Equal(t, "Hello", chunks[0].Name)
	assert.Contains(t, chunks[0].Snippet, "fmt.Println")

	assert.Equal(t, "type", chunks[1].Kind)
	assert.Equal(t, "Greeter", chunks[1].Name)

	assert.Equal(t, "method", chunks[2].Kind)
	assert.Equal(t, "Greeter.Greet", chunks[2].Name)
	assert.Equal(t, "main.go:13:15", chunks[2].Key)
}

func TestChunkFile_Rust_SplitsOversizedImplIntoMethods(t *testing.T) {
	var b strings.Builder
	b.WriteString("struct Widget { value: i32 }\n\n")
	b.WriteString("impl Widget {\n")
	for i := 0; i < 160; i++ {
		b.WriteString("    // padding\n")
	}
	b.WriteString("    fn first(&self) -> i32 { self.value }\n")
	b.WriteString("    fn second(&self) -> i32 { self.value + 1 }\n")
	b.WriteString("}\n")

	p := NewParser()
	registry := DefaultRegistry()

	chunks, err := ChunkFile(p, registry, &File{
		AbsPath:  "/repo/widget.rs",
		RelPath:  "widget.rs",
		Language: "rust",
		Content:  []byte(b.String()),
	})
	require.NoError(t, err)

	var methodNames []string
	for _, c := range chunks {
		if c.Kind == "function" {
			methodNames = append(methodNames, c.Name)
		}
	}
	assert.ElementsMatch(t, []string{"first", "second"}, methodNames)

	for _, c := range chunks {
		assert.LessOrEqual(t, c.EndLine-c.StartLine+1, OversizeLines,
			"split member chunk %q must not exceed the oversize threshold", c.Name)
	}
}

func TestChunkFile_Rust_SmallImplKeptWhole(t *testing.T) {
	source := `struct Widget { value: i32 }

impl Widget {
    fn first(&self) -> i32 { self.value }
}
`
	p := NewParser()
	registry := DefaultRegistry()

	chunks, err := ChunkFile(p, registry, &File{
		AbsPath:  "/repo/widget.rs",
		RelPath:  "widget.rs",
		Language: "rust",
		Content:  []byte(source),
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "struct", chunks[0].Kind)
	assert.Equal(t, "impl", chunks[1].Kind)
	assert.Equal(t, "Widget", chunks[1].Name)
}

func TestChunkFile_JavaScript_UnwrapsExportStatement(t *testing.T) {
	source := `export function add(a, b) {
  return a + b;
}

export class Calculator {
  sum(a, b) {
    return a + b;
  }
}
`
	p := NewParser()
	registry := DefaultRegistry()

	chunks, err := ChunkFile(p, registry, &File{
		AbsPath:  "/repo/calc.js",
		RelPath:  "calc.js",
		Language: "javascript",
		Content:  []byte(source),
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "function", chunks[0].Kind)
	assert.Equal(t, "add", chunks[0].Name)
	assert.True(t, strings.HasPrefix(chunks[0].Snippet, "export function"))

	assert.Equal(t, "class", chunks[1].Kind)
	assert.Equal(t, "Calculator", chunks[1].Name)
	assert.True(t, strings.HasPrefix(chunks[1].Snippet, "export class"))
}

func TestChunkFile_UnsupportedLanguage_ReturnsNoChunksNoError(t *testing.T) {
	p := NewParser()
	registry := DefaultRegistry()

	chunks, err := ChunkFile(p, registry, &File{
		AbsPath:  "/repo/notes.txt",
		RelPath:  "notes.txt",
		Language: "plaintext",
		Content:  []byte("just some notes"),
	})
	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestChunkKey_Format(t *testing.T) {
	assert.Equal(t, "pkg/file.go:3:9", chunkKey("pkg/file.go", 3, 9))
}
