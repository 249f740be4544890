package commands

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/walteh/textpipe/cmd/textpipe/opts"
)

// NewConfigCmd creates the config command
func NewConfigCmd(rootOpts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.RequireConfig()
			if err != nil {
				return err
			}

			pp.ColoringEnabled = false

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "# %s\n# %s\n", cfg.Location(), cfg); err != nil {
				return err
			}
			_, err = pp.Fprintln(out, cfg)
			return err
		},
	}
}
