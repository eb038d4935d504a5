package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/kereso/internal/textmatch"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect language rules files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Load a rules file and report its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := textmatch.LoadRules(args[0])
			if err != nil {
				return err
			}
			stats := rules.Stats()
			keys := make([]string, 0, len(stats))
			for k := range stats {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: ok\n", args[0])
			for _, k := range keys {
				fmt.Fprintf(w, "  %-14s %d\n", k, stats[k])
			}
			return nil
		},
	})
	return cmd
}
