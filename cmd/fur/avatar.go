package main

import (
	"github.com/spf13/cobra"

	"github.com/entrhq/fur/pkg/avatars"
	"github.com/entrhq/fur/pkg/render"
)

func newAvatarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "List and edit avatars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listAvatars(a)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List registered avatars",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return listAvatars(a)
			},
		},
		&cobra.Command{
			Use:   "set <name> <emoji>",
			Short: "Register or change an avatar's emoji",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return editAvatars(a, func(reg *avatars.Registry) error {
					if err := reg.Set(args[0], args[1]); err != nil {
						return err
					}
					emoji, _ := reg.Emoji(args[0])
					a.printf("Avatar %s is now %s\n", args[0], emoji)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "main <name>",
			Short: "Make an avatar the default speaker",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return editAvatars(a, func(reg *avatars.Registry) error {
					reg.SetMain(args[0])
					a.printf("Main avatar is now %s %s\n", avatars.MainEmoji, args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

func listAvatars(a *app) error {
	reg, err := a.avatars()
	if err != nil {
		return err
	}
	mainName, _ := reg.Main()
	var rows []render.AvatarRow
	for _, name := range reg.Names() {
		emoji, _ := reg.Emoji(name)
		rows = append(rows, render.AvatarRow{Name: name, Emoji: emoji, Main: name == mainName})
	}
	a.renderer().Avatars(rows)
	return nil
}

func editAvatars(a *app, edit func(*avatars.Registry) error) error {
	reg, err := a.avatars()
	if err != nil {
		return err
	}
	if err := edit(reg); err != nil {
		return err
	}
	return reg.Save()
}
