package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Repair photo folders left behind by interrupted stage moves",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				s, err := ctx.openStore()
				if err != nil {
					return err
				}
				defer s.Close()

				repaired, err := s.Repair(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if repaired == 0 {
					fmt.Fprintln(out, "Storage is consistent")
				} else {
					fmt.Fprintf(out, "Relocated %d photo folders\n", repaired)
				}
				return nil
			})
		},
	}
}
