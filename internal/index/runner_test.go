package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/codesearch/internal/embed"
	"github.com/Aman-CERP/codesearch/internal/store"
)

// fooSource is a single ten-line Python function, the fixture the
// round-trip and deletion tests index.
const fooSource = `def foo(a, b):
    total = a + b
    if total > 0:
        total += 1
    else:
        total -= 1
    for i in range(3):
        total += i
    total += 1
    return total
`

func newTestOrchestrator(t *testing.T) (*Orchestrator, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "codesearch.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	o, err := New(Deps{
		Store:    s,
		Embedder: embed.NewStaticEmbedder(),
		DBPath:   dbPath,
	})
	require.NoError(t, err)
	return o, dbPath
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNew_RequiresStoreAndEmbedder(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)

	_, err = New(Deps{Store: &store.SQLiteStore{}})
	assert.Error(t, err)
}

func TestOrchestrator_Index_RoundTrip(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	dir := t.TempDir()
	writeFile(t, dir, "sample.py", fooSource)
	ctx := context.Background()

	result, err := o.Index(ctx, dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Files)
	assert.Equal(t, 1, result.Chunks)
	assert.Equal(t, 1, result.Embedded)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Removed)

	results, err := o.Search(ctx, "foo", SearchOptions{Mode: ModeKeyword, Limit: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "foo", results[0].Name)
	assert.Equal(t, "function", results[0].Kind)
	assert.Equal(t, 1, results[0].StartLine)
	assert.Equal(t, 10, results[0].EndLine)
}

func TestOrchestrator_Index_SkipsUnchangedFiles(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	dir := t.TempDir()
	writeFile(t, dir, "sample.py", fooSource)
	ctx := context.Background()

	_, err := o.Index(ctx, dir, Options{})
	require.NoError(t, err)

	second, err := o.Index(ctx, dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Files)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, 0, second.Embedded)
}

func TestOrchestrator_Index_Deletion(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.py")
	writeFile(t, dir, "sample.py", fooSource)
	ctx := context.Background()

	_, err := o.Index(ctx, dir, Options{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	result, err := o.Index(ctx, dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Files)
	assert.Equal(t, 1, result.Removed)

	results, err := o.Search(ctx, "foo", SearchOptions{Mode: ModeKeyword, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestOrchestrator_Index_ReembedsOnModelChange(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "codesearch.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	dir := t.TempDir()
	writeFile(t, dir, "sample.py", fooSource)
	ctx := context.Background()

	first, err := New(Deps{Store: s, Embedder: embed.NewStaticEmbedder()})
	require.NoError(t, err)
	result, err := first.Index(ctx, dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Embedded)

	second, err := New(Deps{Store: s, Embedder: &renamedEmbedder{embed.NewStaticEmbedder()}})
	require.NoError(t, err)
	result, err = second.Index(ctx, dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Files, "content didn't change, so the file itself is skipped")
	assert.Equal(t, 1, result.Embedded, "a model change re-embeds every existing chunk")
}

func TestOrchestrator_Search_HybridReturnsIndexedChunk(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	dir := t.TempDir()
	writeFile(t, dir, "sample.py", fooSource)
	ctx := context.Background()

	_, err := o.Index(ctx, dir, Options{})
	require.NoError(t, err)

	results, err := o.Search(ctx, "foo", SearchOptions{Mode: ModeHybrid, Limit: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "foo", results[0].Name)
}

func TestOrchestrator_Search_KeywordEmptyQueryYieldsNoResults(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	dir := t.TempDir()
	writeFile(t, dir, "sample.py", fooSource)
	ctx := context.Background()

	_, err := o.Index(ctx, dir, Options{})
	require.NoError(t, err)

	results, err := o.Search(ctx, "the a an", SearchOptions{Mode: ModeKeyword, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBuildEmbeddingInput_OmitsEmptyFields(t *testing.T) {
	full := &store.Chunk{
		FilePath: "a.go", Kind: "function", Name: "Foo",
		Signature: "func Foo()", Snippet: "func Foo() {\n\treturn\n}",
	}
	got := buildEmbeddingInput(full)
	assert.Equal(t, "a.go: function Foo\nfunc Foo()\nfunc Foo() {\n\treturn\n}", got)

	bare := &store.Chunk{FilePath: "a.go"}
	assert.Equal(t, "a.go", buildEmbeddingInput(bare))
}

func TestBuildEmbeddingInput_TruncatesLongSnippets(t *testing.T) {
	snippet := make([]byte, 1000)
	for i := range snippet {
		snippet[i] = 'x'
	}
	c := &store.Chunk{FilePath: "a.go", Snippet: string(snippet)}
	got := buildEmbeddingInput(c)
	assert.Equal(t, "a.go\n"+string(snippet[:500]), got)
}

func TestLanguageSet_EmptyMeansNoFilter(t *testing.T) {
	assert.Nil(t, languageSet(nil))
	assert.Nil(t, languageSet([]string{}))

	set := languageSet([]string{"go", "rust"})
	assert.True(t, set["go"])
	assert.False(t, set["python"])
}

func TestIsMissingIndexErr(t *testing.T) {
	assert.True(t, isMissingIndexErr(assertErr{"no such table: fts_3"}))
	assert.False(t, isMissingIndexErr(assertErr{"disk I/O error"}))
}

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }

// renamedEmbedder wraps an embedder and reports a different model name, to
// simulate switching embedding models between index runs.
type renamedEmbedder struct {
	*embed.StaticEmbedder
}

func (r *renamedEmbedder) ModelName() string { return "static-v2" }
