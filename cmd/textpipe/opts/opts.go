package opts

import (
	"github.com/walteh/textpipe/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands. It is filled in
// before a subcommand runs.
type RootOpts struct {
	ConfigFile string
	Debug      bool
	// Config is nil when no config file exists at the default location
	Config *config.Config
}

// RequireConfig returns the loaded config or an error naming the file
func (o *RootOpts) RequireConfig() (*config.Config, error) {
	if o.Config == nil {
		return nil, errors.Errorf("config file %s not found", o.ConfigFile)
	}
	return o.Config, nil
}
