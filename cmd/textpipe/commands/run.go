package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/textpipe/cmd/textpipe/opts"
	"github.com/walteh/textpipe/pkg/log"
	"github.com/walteh/textpipe/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates the run command
func NewRunCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var flags pipeline.Options

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the text pipeline",
		Long: `Run loads the input file line by line, applies the transform to every
line and writes the result as text or as a JSON array.

Flags override the pipeline block of the config file. Without a config file
both --input and --output are required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "run").Logger().WithContext(cmd.Context())

			o, err := resolveRunOptions(cmd, rootOpts, flags)
			if err != nil {
				return err
			}

			console := log.FromContext(ctx)
			console.Header("run")

			res, err := pipeline.Run(ctx, o)
			if err != nil {
				console.Errorf("pipeline failed for %s", o.Input)
				return errors.Errorf("running pipeline: %w", err)
			}

			console.LogNewline()
			if res.Replacements > 0 {
				console.Infof("%d replacements applied", res.Replacements)
			}
			console.Successf("%d lines written to %s (%s)", res.Lines, o.Output, res.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.Input, "input", "i", "", "input text file")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "output format: json or text")
	cmd.Flags().StringVarP(&flags.Transform, "transform", "t", "", "transform: link, plain, raw or link-text")
	cmd.Flags().StringVar(&flags.LinkText, "link-text", "", "label used by link transforms")
	cmd.Flags().BoolVar(&flags.Validate, "validate", false, "validate JSON output against the record schema")

	return cmd
}

// resolveRunOptions merges the config's pipeline block with the flags that
// were set on the command line
func resolveRunOptions(cmd *cobra.Command, rootOpts *opts.RootOpts, flags pipeline.Options) (pipeline.Options, error) {
	var o pipeline.Options

	if cfg := rootOpts.Config; cfg != nil && cfg.Pipeline != nil {
		var err error
		o, err = pipeline.OptionsFromConfig(cfg)
		if err != nil {
			return o, err
		}
	}

	set := cmd.Flags().Changed
	if set("input") {
		o.Input = flags.Input
	}
	if set("output") {
		o.Output = flags.Output
	}
	if set("format") {
		o.Format = flags.Format
	}
	if set("transform") {
		o.Transform = flags.Transform
	}
	if set("link-text") {
		o.LinkText = flags.LinkText
	}
	if set("validate") {
		o.Validate = flags.Validate
	}

	if o.Input == "" || o.Output == "" {
		if _, err := os.Stat(rootOpts.ConfigFile); err != nil {
			return o, errors.Errorf("--input and --output are required without a pipeline config")
		}
		return o, errors.Errorf("%s has no pipeline input/output; set --input and --output", rootOpts.ConfigFile)
	}

	return o, nil
}
