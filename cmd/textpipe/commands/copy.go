package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/textpipe/cmd/textpipe/opts"
	"github.com/walteh/textpipe/pkg/copier"
	"github.com/walteh/textpipe/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewCopyCmd creates the copy command
func NewCopyCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		dryRun bool
		async  bool
	)

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy the configured files into their target directories",
		Long: `Copy resolves every entry of the config's copy list against base_dir.
It will:
1. Expand glob sources into individual files
2. Create missing target directories
3. Copy each file, keeping its permission bits
4. Report which targets were created, modified or unchanged`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "copy").Logger().WithContext(cmd.Context())

			cfg, err := rootOpts.RequireConfig()
			if err != nil {
				return err
			}

			runner, jobs := copier.NewRunnerFromConfig(cfg, copier.Options{
				Debug:  rootOpts.Debug,
				DryRun: dryRun,
				Async:  async,
			})

			console := log.FromContext(ctx)
			console.Header("copy")

			results, err := runner.Run(ctx, jobs)
			if err != nil {
				console.Errorf("copy stopped after %d files", console.Operations())
				return errors.Errorf("copying files: %w", err)
			}

			console.LogNewline()
			if dryRun || cfg.DryRun {
				console.Infof("dry run: %d files planned, nothing copied", len(results))
				return nil
			}
			console.Successf("%d files processed, %d written", len(results), console.Operations())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print resolved paths without copying")
	cmd.Flags().BoolVar(&async, "async", false, "copy files concurrently")

	return cmd
}
