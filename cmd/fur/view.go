package main

import (
	"github.com/spf13/cobra"

	"github.com/entrhq/fur/pkg/session"
)

// openSession loads the active thread and reports messages that could not
// be read.
func openSession(cmd *cobra.Command, a *app) (*session.Session, error) {
	e, err := a.store()
	if err != nil {
		return nil, err
	}
	s, err := session.Open(cmd.Context(), e)
	if err != nil {
		return nil, err
	}
	for _, id := range s.Missing() {
		a.warn("message %s could not be loaded", id)
	}
	return s, nil
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cursor lineage and what may follow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, a)
			if err != nil {
				return err
			}
			a.renderer().Status(s.Status())
			return nil
		},
	}
}

func newTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the branch tree holding the cursor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, a)
			if err != nil {
				return err
			}
			a.renderer().Tree(s.Tree())
			return nil
		},
	}
}

func newTimelineCmd(a *app) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show every message of the active thread in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, a)
			if err != nil {
				return err
			}
			a.renderer().Timeline(s.Thread(), s.Timeline(), verbose)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print linked markdown files in full")
	return cmd
}
