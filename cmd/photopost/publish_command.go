package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var postID string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish one scheduled post to Instagram now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				svc, s, err := newPublishService(ctx)
				if err != nil {
					return err
				}
				defer s.Close()

				instagramID, err := svc.Publish(cmd.Context(), postID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Published %s as %s\n", postID, instagramID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&postID, "post-id", "", "ID of the scheduled post to publish (required)")
	_ = cmd.MarkFlagRequired("post-id")
	return cmd
}
