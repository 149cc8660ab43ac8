package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUnscheduleCommand(ctx *commandContext) *cobra.Command {
	var postID string

	cmd := &cobra.Command{
		Use:   "unschedule",
		Short: "Return a scheduled post to the approved stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				s, err := ctx.openStore()
				if err != nil {
					return err
				}
				defer s.Close()

				p, err := s.GetByID(cmd.Context(), postID)
				if err != nil {
					return err
				}
				if err := s.ClearSchedule(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unscheduled %s\n", postID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&postID, "post-id", "", "ID of the scheduled post (required)")
	_ = cmd.MarkFlagRequired("post-id")
	return cmd
}
