package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/codesearch/internal/chunk"
	"github.com/Aman-CERP/codesearch/internal/gitignore"
)

// gitignoreCacheSize bounds the scanner's per-instance cache of parsed
// .gitignore directory-name sets. A Scanner that repeatedly reindexes the
// same handful of codebases (an orchestrator's typical usage) never
// reparses an unchanged .gitignore.
const gitignoreCacheSize = 64

// Scanner discovers the files worth indexing under a codebase root.
type Scanner struct {
	registry       *chunk.LanguageRegistry
	gitignoreCache *lru.Cache[string, map[string]bool]
}

// New creates a Scanner that detects languages using registry. A nil
// registry falls back to the process-wide default registry.
func New(registry *chunk.LanguageRegistry) *Scanner {
	if registry == nil {
		registry = chunk.DefaultRegistry()
	}
	cache, _ := lru.New[string, map[string]bool](gitignoreCacheSize)
	return &Scanner{registry: registry, gitignoreCache: cache}
}

// Scan walks root recursively and returns every accepted file's content,
// language, and SHA-256 hash. Unreadable directories and files accumulate
// into Result.Errors; a scan never aborts because one entry couldn't be
// read.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root is not a directory: %s", absRoot)
	}

	ignoredDirNames := s.loadRootGitignoreDirs(absRoot)

	result := &Result{}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		if relPath == "." {
			return nil
		}

		if d.IsDir() {
			if shouldSkipDir(d.Name(), ignoredDirNames) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		file, ok, fileErr := s.acceptFile(path, relPath)
		if fileErr != nil {
			result.Errors = append(result.Errors, fileErr)
			return nil
		}
		if ok {
			result.Files = append(result.Files, *file)
		}
		return nil
	})
	if walkErr != nil && walkErr != context.Canceled {
		return result, fmt.Errorf("walk %s: %w", absRoot, walkErr)
	}

	return result, nil
}

// acceptFile applies the size/extension filters and, if the file passes,
// reads its content and hashes it.
func (s *Scanner) acceptFile(absPath, relPath string) (*File, bool, error) {
	lang, ok := s.registry.ByExtension(filepath.Ext(absPath))
	if !ok {
		return nil, false, nil
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", relPath, err)
	}
	if info.Size() == 0 || info.Size() > DefaultMaxFileSize {
		return nil, false, nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", relPath, err)
	}

	sum := sha256.Sum256(content)
	return &File{
		AbsPath:  absPath,
		Path:     filepath.ToSlash(relPath),
		Language: lang.Name,
		Content:  content,
		Hash:     hex.EncodeToString(sum[:]),
		Size:     int64(len(content)),
	}, true, nil
}

// shouldSkipDir reports whether a directory is rejected outright, either
// because it's in the hard-coded ignore list or because its bare name
// appears as a simple pattern in the scan root's .gitignore.
func shouldSkipDir(name string, gitignoredDirs map[string]bool) bool {
	if name == "." {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	if hardIgnoreDirs[name] {
		return true
	}
	return gitignoredDirs[name]
}

// loadRootGitignoreDirs reads the scan root's .gitignore, if any, and
// extracts the subset of patterns that are plain directory names (no
// wildcards). A missing or unreadable .gitignore yields an empty set,
// not an error: .gitignore support is a convenience, not a requirement.
// Parsed results are cached by content so re-scanning the same root (the
// common case for incremental reindexing) skips the parse.
func (s *Scanner) loadRootGitignoreDirs(absRoot string) map[string]bool {
	content, err := os.ReadFile(filepath.Join(absRoot, ".gitignore"))
	if err != nil {
		return nil
	}

	key := string(content)
	if s.gitignoreCache != nil {
		if cached, ok := s.gitignoreCache.Get(key); ok {
			return cached
		}
	}

	dirs := gitignore.SimpleDirectoryNames(key)
	if s.gitignoreCache != nil {
		s.gitignoreCache.Add(key, dirs)
	}
	return dirs
}
