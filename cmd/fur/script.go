package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/entrhq/fur/pkg/config"
	"github.com/entrhq/fur/pkg/script"
)

// storeCommand is the script command that exports the thread.
const storeCommand = "store"

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.frs>",
		Short: "Import a script as a new thread without replaying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := importScript(cmd, a, args[0])
			return err
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var yes, no bool
	cmd := &cobra.Command{
		Use:   "run <file.frs>",
		Short: "Import a script and replay its embedded commands",
		Long: `Parse and store a script as a new thread, then execute the commands it
embeds (timeline, tree, status, store) in order. A thread with the same
title is replaced after confirmation; --yes and --no answer in advance.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes && no {
				return fmt.Errorf("--yes and --no are mutually exclusive")
			}
			if yes {
				a.settings.Overwrite = config.OverwriteAlways
			} else if no {
				a.settings.Overwrite = config.OverwriteNever
			}

			s, err := importScript(cmd, a, args[0])
			if err != nil {
				return err
			}
			for _, c := range s.Commands() {
				replay(cmd, a, c)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace a thread with the same title without asking")
	cmd.Flags().BoolVar(&no, "no", false, "keep a thread with the same title without asking")
	return cmd
}

// importScript parses path and commits it, reporting warnings and the
// outcome.
func importScript(cmd *cobra.Command, a *app, path string) (*script.Script, error) {
	reg, err := a.avatars()
	if err != nil {
		return nil, err
	}
	s, err := script.ParseFile(path, script.WithAvatars(reg))
	if err != nil {
		return nil, err
	}
	for _, w := range s.Warnings {
		a.warn("%s: %s", filepath.Base(path), w)
	}

	e, err := a.store()
	if err != nil {
		return nil, err
	}
	res, err := e.Commit(cmd.Context(), s)
	if err != nil {
		return nil, err
	}
	if res.Declined {
		a.printf("Kept existing thread %q (%s)\n", s.Title, res.ThreadID)
		return s, nil
	}
	if res.Replaced != "" {
		a.printf("Replaced thread %s\n", res.Replaced)
	}
	for _, as := range res.NewAvatars {
		a.printf("New avatar %s %s\n", as.Emoji, as.Name)
	}
	a.printf("Stored thread %q (%s) with %d messages\n", s.Title, res.ThreadID, res.Messages)
	return s, nil
}

// replay runs one embedded script command through a fresh command tree
// sharing this invocation's state. Failures are reported with the script
// line and do not stop the replay.
func replay(cmd *cobra.Command, a *app, c *script.Command) {
	name, args := c.Name, c.Args
	if name == storeCommand {
		if len(args) == 0 {
			a.log.Debugf("line %d: store without --out, thread already committed", c.LineNo)
			return
		}
		name = "save"
	}

	root := newRootCmd(a)
	if sub, _, err := root.Find([]string{name}); err != nil || sub == root {
		a.warn("line %d: unknown command %q", c.LineNo, c.Name)
		return
	}
	root.SetArgs(append([]string{name}, args...))
	if err := root.ExecuteContext(cmd.Context()); err != nil {
		a.warn("line %d: %s: %v", c.LineNo, c.Name, err)
	}
}

func newSaveCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Export the active thread as a script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.store()
			if err != nil {
				return err
			}
			v, err := e.Active(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range v.Missing {
				a.warn("message %s could not be loaded and is left out", id)
			}
			if out == "" {
				return script.Write(a.out, v.Thread, v.Graph)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := script.Write(f, v.Thread, v.Graph); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.printf("Saved thread %q to %s\n", v.Thread.Title, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}
