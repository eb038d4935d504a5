package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newExpandCmd(engineOpts *engineOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "expand <words>",
		Short: "Show the query tokens and their match variants",
		Long: `Show how a query is normalized, tokenized and expanded into
stems and synonyms before matching.

Example:
  keresoctl expand "stresszes vagyok és nem alszom jól"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(cmd.OutOrStdout(), strings.Join(args, " "), engineOpts)
		},
	}
}

func runExpand(w io.Writer, query string, engineOpts *engineOptions) error {
	engine, err := engineOpts.engine()
	if err != nil {
		return err
	}

	q := engine.Prepare(query)
	var b strings.Builder
	fmt.Fprintf(&b, "normalized: %s\n", q.Normalized)
	if len(q.Tokens) == 0 {
		b.WriteString("no tokens left after stop words, matching falls back to substring search\n")
	}
	for i, tok := range q.Tokens {
		fmt.Fprintf(&b, "%s: %s\n", tok, strings.Join(q.Variants[i], ", "))
	}
	if cluster, queries := engine.Rules().FallbackPlan(query); cluster != "" {
		fmt.Fprintf(&b, "fallback (%s): %s\n", cluster, strings.Join(queries, ", "))
	}
	_, err = io.WriteString(w, b.String())
	return err
}
