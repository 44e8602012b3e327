// Package logging provides file-based logging with rotation for
// codesearch. Every command writes info-level JSON logs to
// ~/.codesearch/logs/.
//
// With the --debug flag the level drops to debug and the same records are
// also written to stderr; without it nothing is logged to stderr.
package logging
