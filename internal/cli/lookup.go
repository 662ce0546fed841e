package cli

import (
	"encoding/json"
	"strings"

	"github.com/heartmarshall/words/internal/adapter/provider/freedict"
	"github.com/heartmarshall/words/internal/app"
	"github.com/heartmarshall/words/internal/service/lookup"
	"github.com/heartmarshall/words/internal/view"
	"github.com/spf13/cobra"
)

type lookupOptions struct {
	detailed bool
	json     bool
}

func newLookupCommand(root *rootOptions) *cobra.Command {
	opts := &lookupOptions{}

	cmd := &cobra.Command{
		Use:   "lookup <word...>",
		Short: "Look up a word and print it",
		Long: `Lookup queries the dictionary once and prints the result.

Example:
  words lookup hello
  words lookup ice cream --detailed
  words lookup hello --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, root, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show why a lookup found nothing")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the view model as JSON")
	return cmd
}

func runLookup(cmd *cobra.Command, root *rootOptions, opts *lookupOptions, term string) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}

	logCfg := cfg.Log
	logCfg.Format = "text"
	logCfg.Level = "error"
	if root.verbose {
		logCfg.Level = "debug"
	}
	logger := app.NewLogger(cmd.ErrOrStderr(), logCfg)

	policy := view.ParsePolicy(cfg.UI.ErrorDetail)
	if opts.detailed {
		policy = view.PolicyDetailed
	}

	c := lookup.NewController(logger, freedict.NewProvider(cfg.Dictionary, logger))
	defer c.Close()

	state, err := c.Submit(cmd.Context(), term)
	if err != nil {
		return err
	}

	page := view.Build(state, policy)
	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	return view.RenderText(cmd.OutOrStdout(), page)
}
