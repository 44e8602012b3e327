package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/codesearch/internal/chunk"
)

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestScan_EmitsOneFilePerRecognizedExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, root, "README.md", "# hi\n")

	s := New(chunk.DefaultRegistry())
	result, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "main.go", result.Files[0].Path)
	assert.Equal(t, "go", result.Files[0].Language)
}

func TestScan_SkipsHardIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}\n")
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main\n")
	writeFile(t, root, "src/app.js", "console.log(1)\n")

	s := New(chunk.DefaultRegistry())
	result, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "src/app.js", result.Files[0].Path)
}

func TestScan_SkipsHiddenEntriesExceptRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".hidden/main.go", "package main\n")
	writeFile(t, root, ".env", "SECRET=1\n")
	writeFile(t, root, "visible.go", "package main\n")

	s := New(chunk.DefaultRegistry())
	result, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "visible.go", result.Files[0].Path)
}

func TestScan_RespectsSimpleGitignoreDirectoryPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "vendor\nfixtures/\n")
	writeFile(t, root, "vendor/lib.go", "package vendor\n")
	writeFile(t, root, "fixtures/sample.go", "package fixtures\n")
	writeFile(t, root, "app.go", "package app\n")

	s := New(chunk.DefaultRegistry())
	result, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "app.go", result.Files[0].Path)
}

func TestScan_IgnoresWildcardGitignorePatterns(t *testing.T) {
	// Wildcard patterns are out of scope: "*.generated" should NOT
	// cause generated.go to be skipped by directory-name matching.
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.generated\n")
	writeFile(t, root, "generated.go", "package main\n")

	s := New(chunk.DefaultRegistry())
	result, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
}

func TestScan_SkipsUnknownExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.xyz", "whatever\n")

	s := New(chunk.DefaultRegistry())
	result, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, result.Files)
}

func TestScan_SkipsEmptyFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "empty.go", "")

	s := New(chunk.DefaultRegistry())
	result, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, result.Files)
}

func TestScan_SkipsOversizedFile(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, DefaultMaxFileSize+1)
	for i := range big {
		big[i] = 'a'
	}
	writeFile(t, root, "huge.go", string(big))

	s := New(chunk.DefaultRegistry())
	result, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, result.Files)
}

func TestScan_ComputesSHA256ContentHash(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")

	s := New(chunk.DefaultRegistry())
	result, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	assert.Equal(t, "df1d036cbbf3df46e2045071e082245ece204c7f53ecf0a4e022bff9bb228f47", result.Files[0].Hash)
}

func TestScan_UnreadableDirectoryIsNonFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.go", "package main\n")
	unreadable := filepath.Join(root, "locked")
	require.NoError(t, os.Mkdir(unreadable, 0o000))
	defer func() { _ = os.Chmod(unreadable, 0o755) }()

	s := New(chunk.DefaultRegistry())
	result, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	found := false
	for _, f := range result.Files {
		if f.Path == "ok.go" {
			found = true
		}
	}
	assert.True(t, found, "readable files elsewhere in the tree are still found")
}

func TestScan_NonexistentRootReturnsError(t *testing.T) {
	s := New(chunk.DefaultRegistry())
	_, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
