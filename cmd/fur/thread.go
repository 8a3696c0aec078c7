package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/entrhq/fur/pkg/graph"
	"github.com/entrhq/fur/pkg/render"
	"github.com/entrhq/fur/pkg/store"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs, err := store.Init(a.settings.Root, time.Now())
			if err != nil {
				return err
			}
			a.engine = a.newEngine(fs)
			a.log.Infof("initialized store at %s", fs.Root())
			a.printf("Initialized fur store in %s\n", fs.Root())
			return nil
		},
	}
}

func newNewCmd(a *app) *cobra.Command {
	var tags []string
	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Start an empty thread and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.store()
			if err != nil {
				return err
			}
			t, err := e.NewThread(cmd.Context(), args[0], tags)
			if err != nil {
				return err
			}
			a.printf("Created thread %q (%s)\n", t.Title, t.ID)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag the thread (repeatable)")
	return cmd
}

func newThreadCmd(a *app) *cobra.Command {
	var (
		match  string
		remove bool
	)
	cmd := &cobra.Command{
		Use:   "thread [id-prefix]",
		Short: "List threads, or switch to one",
		Long: `Without an argument, list every thread and mark the active one. With an
id or unique id prefix, make that thread active and clear the cursor.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.store()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				if remove {
					return fmt.Errorf("--delete needs a thread id")
				}
				return listThreads(cmd.Context(), a, e, match)
			}
			if remove {
				id, err := e.DeleteThread(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.printf("Deleted thread %s\n", id)
				return nil
			}
			t, err := e.SwitchThread(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printf("Switched to thread %q (%s)\n", t.Title, t.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&match, "match", "m", "", "only list threads whose title or a tag matches this glob")
	cmd.Flags().BoolVar(&remove, "delete", false, "delete the thread and all of its messages")
	return cmd
}

func listThreads(ctx context.Context, a *app, e *store.Engine, pattern string) error {
	threads, ix, err := e.Threads(ctx)
	if err != nil {
		return err
	}
	var g glob.Glob
	if pattern != "" {
		if g, err = glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid --match pattern %q: %w", pattern, err)
		}
	}

	rows := make([]render.ThreadRow, 0, len(threads))
	for _, t := range threads {
		if g != nil && !threadMatches(g, t) {
			continue
		}
		rows = append(rows, render.ThreadRow{Thread: t, Active: t.ID == ix.Active()})
	}
	a.renderer().Threads(rows)
	return nil
}

func threadMatches(g glob.Glob, t *graph.Thread) bool {
	if g.Match(t.Title) {
		return true
	}
	for _, tag := range t.Tags {
		if g.Match(tag) {
			return true
		}
	}
	return false
}

func newForkCmd(a *app) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "fork",
		Short: "Copy a thread into a new active thread",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.store()
			if err != nil {
				return err
			}
			t, err := e.Fork(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.printf("Forked %s into %q (%s)\n", t.ForkedFrom, t.Title, t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "thread id or prefix to fork (default: active thread)")
	return cmd
}
