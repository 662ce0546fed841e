// Package cli implements the words command line.
package cli

import (
	"github.com/heartmarshall/words/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the words command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "words",
		Short: "Words - English dictionary lookups",
		Long: `Words looks up English words in the public dictionary service and shows
their phonetics, definitions, synonyms, antonyms and examples.

Run "words serve" for the web page or "words lookup <word>" in a terminal.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(
		newServeCommand(opts),
		newLookupCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)

	return cmd
}

// load resolves the config file from the flag, then CONFIG_PATH.
func (o *rootOptions) load() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFrom(o.configPath)
	}
	return config.Load()
}
