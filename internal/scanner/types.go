// Package scanner walks a codebase's directory tree and emits the files
// worth indexing: readable, reasonably sized, recognized by the language
// registry, with their content and a SHA-256 hash attached.
package scanner

// DefaultMaxFileSize is the exact byte cap above which a file is skipped.
// Not configurable per spec: this is the one scan-time size limit.
const DefaultMaxFileSize = 1_000_000

// hardIgnoreDirs are directory names rejected regardless of .gitignore
// content.
var hardIgnoreDirs = map[string]bool{
	".git":        true,
	"node_modules": true,
	"target":      true,
	"build":       true,
	"dist":        true,
	".next":       true,
	"__pycache__": true,
	".tox":        true,
	".venv":       true,
	"venv":        true,
	".mypy_cache": true,
	".cargo":      true,
	".rustup":     true,
}

// File is one accepted, readable file discovered under a scan root.
type File struct {
	// AbsPath is the file's absolute path on disk.
	AbsPath string
	// Path is AbsPath relative to the scan root.
	Path string
	// Language is the name the language registry assigned by extension.
	Language string
	// Content is the file's raw bytes.
	Content []byte
	// Hash is the lowercase hex SHA-256 of Content.
	Hash string
	// Size is len(Content).
	Size int64
}

// Result is the outcome of a single Scan call: every accepted file plus
// every non-fatal per-entry error encountered along the way. A scan never
// aborts on an individual unreadable file or directory.
type Result struct {
	Files  []File
	Errors []error
}
