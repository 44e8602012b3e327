package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/codesearch/internal/index"
)

func newIndexCmd() *cobra.Command {
	var languages string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Index a directory for searching",
		Long: `Index a directory to enable hybrid search over its contents.

This scans files, chunks code with a tree-sitter grammar per language,
generates embeddings for anything new or stale, and rebuilds the
directory's full-text index. Files unchanged since the last run are
skipped; files removed from disk are dropped from the index.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			cfg := loadConfig()
			orch, err := openOrchestrator(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = orch.Close() }()

			opts := index.Options{Verbose: verbose}
			if languages != "" {
				opts.Languages = strings.Split(languages, ",")
			}

			result, err := orch.Index(ctx, path, opts)
			if err != nil {
				return fmt.Errorf("index %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "indexed %s in %s\n", path, result.Duration)
			fmt.Fprintf(out, "  files:    %d\n", result.Files)
			fmt.Fprintf(out, "  chunks:   %d\n", result.Chunks)
			fmt.Fprintf(out, "  embedded: %d\n", result.Embedded)
			fmt.Fprintf(out, "  skipped:  %d\n", result.Skipped)
			fmt.Fprintf(out, "  removed:  %d\n", result.Removed)
			if len(result.Errors) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d file(s) had errors:\n", len(result.Errors))
				for _, e := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", e)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&languages, "languages", "", "comma-separated language allow-list (default: every registered language)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log per-file scan errors")

	return cmd
}
