package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/fur/pkg/avatars"
	"github.com/entrhq/fur/pkg/config"
	"github.com/entrhq/fur/pkg/logging"
	"github.com/entrhq/fur/pkg/prompt"
	"github.com/entrhq/fur/pkg/render"
	"github.com/entrhq/fur/pkg/store"
)

var version = "dev"

// app is the state shared by every command of one invocation, including
// commands replayed from a script by `fur run`.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	flags    config.Overrides
	settings config.Settings
	ready    bool

	log    *logging.Logger
	engine *store.Engine
}

func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{in: in, out: out, errOut: errOut}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "fur",
		Short: "Write, store and replay branching conversations",
		Long: `fur keeps conversation threads as message trees on disk. Messages are
added one at a time with jot or imported from .frs scripts, and a cursor
walks the tree to show status, timelines and branches.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.Root, "dir", "", "store directory (env FUR_DIR, default .fur)")
	pf.StringVarP(&a.flags.ConfigPath, "config", "c", "", "config file path (env FUR_CONFIG, default $HOME/.fur/config.yaml)")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.flags.Overwrite, "overwrite", "", "replace threads with the same title: ask, always or never")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newInitCmd(a),
		newNewCmd(a),
		newThreadCmd(a),
		newForkCmd(a),
		newJotCmd(a),
		newJumpCmd(a),
		newCatCmd(a),
		newStatusCmd(a),
		newTreeCmd(a),
		newTimelineCmd(a),
		newLoadCmd(a),
		newRunCmd(a),
		newSaveCmd(a),
		newAvatarCmd(a),
	)
	return root
}

// setup resolves configuration and logging once per invocation.
func (a *app) setup() error {
	if a.ready {
		return nil
	}
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	path, err := config.ConfigPath(a.flags.ConfigPath)
	if err != nil {
		return err
	}
	if err := config.Initialize(path); err != nil {
		return err
	}
	settings, err := config.Resolve(a.flags)
	if err != nil {
		return err
	}
	a.settings = settings

	logging.SetLevel(settings.LogLevel)
	a.log, err = logging.NewLogger("cli")
	if err != nil {
		fmt.Fprintf(a.errOut, "warning: logging to stderr: %v\n", err)
	}
	a.log.Debugf("fur %s, store %s, overwrite %s", version, settings.Root, settings.Overwrite)
	a.ready = true
	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Close()
	}
}

// store returns the engine over the configured store, opening it on first use.
func (a *app) store() (*store.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}
	fs, err := store.Open(a.settings.Root)
	if err != nil {
		return nil, err
	}
	a.engine = a.newEngine(fs)
	return a.engine, nil
}

func (a *app) newEngine(fs *store.FileStore) *store.Engine {
	return store.NewEngine(fs,
		store.WithConfirmer(a.confirmer()),
		store.WithLogger(a.log),
	)
}

func (a *app) confirmer() store.Confirmer {
	switch a.settings.Overwrite {
	case config.OverwriteAlways:
		return prompt.Fixed(true)
	case config.OverwriteNever:
		return prompt.Fixed(false)
	}
	if f, ok := a.in.(*os.File); ok {
		return prompt.New(f, a.errOut)
	}
	return prompt.NewReader(a.in, a.errOut, false)
}

func (a *app) avatars() (*avatars.Registry, error) {
	e, err := a.store()
	if err != nil {
		return nil, err
	}
	return avatars.Load(e.Store().AvatarsPath())
}

func (a *app) renderer() *render.Renderer {
	return render.New(a.out, render.Options{
		PreviewWidth: a.settings.PreviewWidth,
		TimeFormat:   a.settings.TimeFormat,
		Relative:     a.settings.Relative,
		Color:        a.settings.Color,
	})
}

// warn shows a recoverable problem to the user and records it in the log.
func (a *app) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.log.Warnf("%s", msg)
	render.New(a.errOut, render.Options{Color: a.settings.Color}).Warning(msg)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
