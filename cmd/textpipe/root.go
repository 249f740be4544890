package main

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/walteh/textpipe/cmd/textpipe/commands"
	"github.com/walteh/textpipe/cmd/textpipe/opts"
	"github.com/walteh/textpipe/pkg/config"
	"github.com/walteh/textpipe/pkg/log"
	"gitlab.com/tozd/go/errors"
)

const (
	defaultConfigFile = ".textpipe.yaml"
	envPrefix         = "TEXTPIPE"

	// commands annotated with skipConfig run without loading a config file
	skipConfig = "skip-config"
)

// NewRootCmd creates the textpipe command tree
func NewRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "textpipe",
		Short:         "Copy files and run line-oriented text pipelines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.ConfigFile = v.GetString("config")
			rootOpts.Debug = v.GetBool("debug")

			ctx := setupLogging(cmd, rootOpts.Debug)
			cmd.SetContext(ctx)

			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}

			return loadConfig(cmd, rootOpts)
		},
	}

	addRootFlags(cmd, v)

	cmd.AddCommand(
		commands.NewCopyCmd(rootOpts),
		commands.NewRunCmd(rootOpts),
		commands.NewConfigCmd(rootOpts),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command and binds them to
// TEXTPIPE_* environment variables
func addRootFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.PersistentFlags().StringP("config", "c", defaultConfigFile, "config file path (.yaml, .json or .hcl)")
	cmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))
}

// setupLogging configures zerolog and the console logger and stores both in
// the command context
func setupLogging(cmd *cobra.Command, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &zlog

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.NewWithZerolog(cmd.OutOrStdout(), zlog))
}

// loadConfig reads the config file into rootOpts. A missing file at the
// default location is not an error; commands that need one check for it.
func loadConfig(cmd *cobra.Command, rootOpts *opts.RootOpts) error {
	ctx := cmd.Context()

	if _, err := os.Stat(rootOpts.ConfigFile); err != nil {
		if os.IsNotExist(err) && rootOpts.ConfigFile == defaultConfigFile {
			zerolog.Ctx(ctx).Debug().Str("path", rootOpts.ConfigFile).Msg("no config file")
			return nil
		}
		return errors.Errorf("reading config file: %w", err)
	}

	cfg, err := config.Load(ctx, rootOpts.ConfigFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	if cfg.Debug && !rootOpts.Debug {
		rootOpts.Debug = true
		cmd.SetContext(setupLogging(cmd, true))
	}

	rootOpts.Config = cfg
	return nil
}
