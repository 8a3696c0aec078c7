package main

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/entrhq/fur/pkg/graph"
	"github.com/entrhq/fur/pkg/session"
	"github.com/entrhq/fur/pkg/traverse"
)

func newJotCmd(a *app) *cobra.Command {
	var avatar, file, attach string
	cmd := &cobra.Command{
		Use:   `jot ["text"]`,
		Short: "Add a message after the current one",
		Long: `Add a message under the cursor and move the cursor to it. The message
holds the given text, a linked markdown file (--file) or an attachment
(--attach). Without a cursor the message starts a new root of the thread.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := jotBody(args, file, attach)
			if err != nil {
				return err
			}
			e, err := a.store()
			if err != nil {
				return err
			}
			m, err := e.Jot(cmd.Context(), avatar, body)
			if err != nil {
				return err
			}
			a.printf("Jotted %s as %s\n", m.ID, m.Avatar)
			return nil
		},
	}
	cmd.Flags().StringVarP(&avatar, "avatar", "a", "", "speaker name (default: main avatar)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "link a markdown file instead of text")
	cmd.Flags().StringVar(&attach, "attach", "", "attach a file instead of text")
	return cmd
}

func jotBody(args []string, file, attach string) (graph.Body, error) {
	var bodies []graph.Body
	if len(args) == 1 {
		bodies = append(bodies, graph.Text(args[0]))
	}
	if file != "" {
		bodies = append(bodies, graph.Markdown(file))
	}
	if attach != "" {
		bodies = append(bodies, graph.Attachment(attach))
	}
	switch len(bodies) {
	case 0:
		return graph.Body{}, errors.New("nothing to jot: give text, --file or --attach")
	case 1:
		return bodies[0], nil
	default:
		return graph.Body{}, errors.New("give only one of text, --file or --attach")
	}
}

func newJumpCmd(a *app) *cobra.Command {
	var (
		past, child int
		id          string
	)
	cmd := &cobra.Command{
		Use:   "jump",
		Short: "Move the cursor",
		Long: `Move the cursor back along its lineage (--past N), forward to the N-th
message listed by status (--child N), or to a message id or unique prefix
(--id).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set := 0
			for _, given := range []bool{past != 0, child != 0, id != ""} {
				if given {
					set++
				}
			}
			if set != 1 {
				return errors.New("give exactly one of --past, --child or --id")
			}

			e, err := a.store()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var target string
			switch {
			case past != 0:
				target, err = e.JumpPast(ctx, past)
				if errors.Is(err, traverse.ErrAtOrigin) {
					a.warn("no earlier message exists, cursor not moved")
					return nil
				}
			case child != 0:
				target, err = e.JumpChild(ctx, child)
			default:
				target, err = e.JumpTo(ctx, id)
			}
			if err != nil {
				return err
			}
			a.printf("Current message: %s\n", target)
			return nil
		},
	}
	cmd.Flags().IntVarP(&past, "past", "p", 0, "step back N messages")
	cmd.Flags().IntVarP(&child, "child", "n", 0, "move to the N-th following message")
	cmd.Flags().StringVar(&id, "id", "", "move to a message id or unique prefix")
	return cmd
}

func newCatCmd(a *app) *cobra.Command {
	var copyOut bool
	cmd := &cobra.Command{
		Use:   "cat",
		Short: "Print the current message in full",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.store()
			if err != nil {
				return err
			}
			s, err := session.Open(cmd.Context(), e)
			if err != nil {
				return err
			}
			entry, err := s.Current()
			if err != nil {
				return err
			}
			if err := a.renderer().Message(entry); err != nil {
				return err
			}
			if !copyOut {
				return nil
			}
			content, err := session.Content(entry)
			if err != nil {
				return err
			}
			if err := clipboard.WriteAll(content); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			a.printf("Copied to clipboard.\n")
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyOut, "copy", false, "also copy the content to the clipboard")
	return cmd
}
