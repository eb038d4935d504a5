// Package cmd provides the keresoctl commands.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/kereso/internal/textmatch"
	"github.com/kailas-cloud/kereso/internal/version"
)

// engineOptions are the persistent flags shared by commands that match text.
type engineOptions struct {
	rulesPath      string
	noEditDistance bool
}

// NewRootCmd creates the root command for keresoctl.
func NewRootCmd() *cobra.Command {
	var opts engineOptions

	cmd := &cobra.Command{
		Use:   "keresoctl",
		Short: "Operator tools for the kereso search engine",
		Long: `keresoctl runs the kereso matcher offline.

It ranks a JSON corpus exactly like the server does, shows how query
words are expanded and validates language rules files before deploy.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.SetVersionTemplate("keresoctl version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.rulesPath, "rules", "", "Language rules YAML (default: embedded Hungarian rules)")
	cmd.PersistentFlags().BoolVar(&opts.noEditDistance, "no-edit-distance", false, "Disable edit-distance matching")

	cmd.AddCommand(newSearchCmd(&opts))
	cmd.AddCommand(newExpandCmd(&opts))
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

func (o *engineOptions) engine() (*textmatch.Engine, error) {
	rules := textmatch.DefaultRules()
	if o.rulesPath != "" {
		loaded, err := textmatch.LoadRules(o.rulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		rules = loaded
	}
	return textmatch.NewEngine(rules, textmatch.WithEditDistance(!o.noEditDistance)), nil
}
