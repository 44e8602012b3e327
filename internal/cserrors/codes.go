// Package cserrors provides the structured error type used across the
// scan/chunk/embed/store pipeline. Named cserrors, not errors, so files
// that also import the standard library's errors package don't collide.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 2XX: scan/parse errors (non-fatal, accumulated)
//   - 3XX: embedder errors
//   - 4XX: storage errors
package cserrors

// Category classifies an error for reporting and dashboards.
type Category string

const (
	// CategoryScan indicates a scan-time file or directory error.
	CategoryScan Category = "SCAN"
	// CategoryParse indicates a chunker parse error.
	CategoryParse Category = "PARSE"
	// CategoryEmbed indicates an embedder error.
	CategoryEmbed Category = "EMBED"
	// CategoryStorage indicates a store error.
	CategoryStorage Category = "STORAGE"
)

// Severity defines how an error should affect the calling operation.
type Severity string

const (
	// SeverityFatal aborts the current index() or search() call.
	SeverityFatal Severity = "FATAL"
	// SeverityWarning is non-fatal and accumulates into IndexResult.Errors.
	SeverityWarning Severity = "WARNING"
)

// Error codes, per spec.md §7 / SPEC_FULL.md §7.
const (
	// ErrScanUnreadable marks a directory or file the scanner couldn't
	// read. Non-fatal; the walk continues.
	ErrScanUnreadable = "ERR_201_SCAN_UNREADABLE"

	// ErrFileTooLarge marks a file skipped for exceeding the 1,000,000
	// byte cap.
	ErrFileTooLarge = "ERR_202_FILE_TOO_LARGE"

	// ErrParseFailed marks a file the chunker couldn't parse. Non-fatal;
	// the file produces no chunks.
	ErrParseFailed = "ERR_210_PARSE_FAILED"

	// ErrEmbedderFailed marks an embedder call that returned an error.
	// Propagated; the containing sub-batch is abandoned.
	ErrEmbedderFailed = "ERR_301_EMBEDDER_FAILED"

	// ErrStorageFatal marks a constraint violation or I/O error during a
	// store write. The enclosing transaction is rolled back.
	ErrStorageFatal = "ERR_401_STORAGE_FATAL"

	// ErrUnsearchable marks a failed search health check: a database file
	// over the size threshold, with at least one codebase registered, whose
	// indexed chunk count sums to zero.
	ErrUnsearchable = "ERR_402_UNSEARCHABLE"

	// ErrDimensionMismatch marks an embedder response whose vector width
	// doesn't match the configured dimensions.
	ErrDimensionMismatch = "ERR_403_DIMENSION_MISMATCH"
)

// categoryFromCode extracts the category from a code's numeric prefix.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryStorage
	}
	switch code[4] {
	case '2':
		if code[5] == '1' && code[6] == '0' {
			return CategoryParse
		}
		return CategoryScan
	case '3':
		return CategoryEmbed
	default:
		return CategoryStorage
	}
}

// severityFromCode reports whether code is fatal or a warning to
// accumulate, per the table in SPEC_FULL.md §7.
func severityFromCode(code string) Severity {
	switch code {
	case ErrUnsearchable, ErrStorageFatal:
		return SeverityFatal
	default:
		return SeverityWarning
	}
}
