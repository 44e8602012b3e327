package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/codesearch/internal/index"
	"github.com/Aman-CERP/codesearch/internal/output"
)

func newSearchCmd() *cobra.Command {
	var (
		limit          int
		threshold      float64
		mode           string
		includeSnippet bool
		format         string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search every indexed codebase",
		Long: `Search every indexed codebase using semantic, keyword, or hybrid
(reciprocal-rank-fused) search.

Examples:
  codesearch search "parse config file"
  codesearch search "handleRequest" --mode keyword --limit 5
  codesearch search "retry logic" --mode hybrid --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			cfg := loadConfig()
			orch, err := openOrchestrator(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = orch.Close() }()

			opts := index.SearchOptions{
				Limit:          limit,
				Threshold:      threshold,
				IncludeSnippet: includeSnippet,
				Mode:           index.Mode(mode),
			}
			results, err := orch.Search(cmd.Context(), query, opts)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			if format == "json" {
				return writeJSONResults(cmd, results)
			}
			return writeTextResults(cmd, query, results)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum number of results")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum score a result must reach")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(index.ModeSemantic), "search mode: semantic, keyword, or hybrid")
	cmd.Flags().BoolVar(&includeSnippet, "snippet", false, "include each chunk's source snippet in the output")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")

	return cmd
}

func writeJSONResults(cmd *cobra.Command, results []index.SearchResult) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeTextResults(cmd *cobra.Command, query string, results []index.SearchResult) error {
	out := output.New(cmd.OutOrStdout())

	// A non-interactive stdout (piped output, CI) gets plain icon-free
	// lines; a real terminal gets the decorated form.
	icon := "🔍"
	if f, ok := cmd.OutOrStdout().(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		icon = ""
	}

	if len(results) == 0 {
		out.Status(icon, fmt.Sprintf("no results for %q", query))
		return nil
	}

	out.Statusf(icon, "%d result(s) for %q:", len(results), query)
	out.Newline()
	for i, r := range results {
		location := r.FilePath
		if r.StartLine > 0 {
			location = fmt.Sprintf("%s:%d", r.FilePath, r.StartLine)
		}
		label := r.Name
		if label == "" {
			label = r.Kind
		}
		if label != "" {
			out.Statusf("", "%d. %s (%s, score %.3f)", i+1, location, label, r.Score)
		} else {
			out.Statusf("", "%d. %s (score %.3f)", i+1, location, r.Score)
		}
		if r.Signature != "" {
			out.Status("", "   "+r.Signature)
		}
		if r.Snippet != "" {
			out.Code(r.Snippet)
		}
	}
	return nil
}
