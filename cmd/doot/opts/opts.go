package opts

import (
	"context"
	"io"
	"os"

	"github.com/dootsh/doot/pkg/config"
	"github.com/dootsh/doot/pkg/store"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options and dependencies used by all commands.
type RootOpts struct {
	// Flag values, bound before Setup runs.
	ConfigFile  string
	Debug       bool
	SkipConfirm bool

	// Dependencies, populated by Setup.
	Config  *config.Config
	Store   store.Store
	BaseDir string

	// Streams for the interactive protocol. Nil means the process's
	// standard streams; tests inject buffers.
	In  io.Reader
	Out io.Writer
}

// Setup loads the configuration, selects the content store for the configured
// mode, and records the working directory that holds the managed group
// directories.
func (o *RootOpts) Setup(ctx context.Context) error {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	o.Config = cfg
	o.Store = store.New(cfg.Mode)

	cwd, err := os.Getwd()
	if err != nil {
		return errors.Errorf("getting working directory: %w", err)
	}
	o.BaseDir = cwd

	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}

	zerolog.Ctx(ctx).Debug().
		Str("config", o.ConfigFile).
		Str("mode", cfg.Mode.String()).
		Str("base_dir", cwd).
		Msg("initialized")
	return nil
}
