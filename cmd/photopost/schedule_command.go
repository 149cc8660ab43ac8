package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boggdan95/photo-to-post/internal/scheduler"
)

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Order approved posts and assign publish slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				s, err := ctx.openStore()
				if err != nil {
					return err
				}
				defer s.Close()

				engine := scheduler.NewEngine(cfg, s, logger)
				result, err := engine.Run(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(result.Items) == 0 {
					fmt.Fprintln(out, "No approved posts to schedule")
					return nil
				}

				rows := make([][]string, 0, len(result.Items))
				for _, item := range result.Items {
					status := "scheduled"
					if item.Err != nil {
						status = "failed: " + item.Err.Error()
					}
					rows = append(rows, []string{item.PostID, item.Country, item.Date, item.Time, status})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Post", "Country", "Date", "Time", "Status"},
					rows,
					nil,
				))

				kind := statusOK
				if result.Failed > 0 {
					kind = statusWarn
				}
				printStatusLine(out, kind, "scheduled", fmt.Sprintf("%d posts (%d failed, %s mode, %s)",
					result.Scheduled, result.Failed, result.Mode, result.Outcome))
				return nil
			})
		},
	}
}
