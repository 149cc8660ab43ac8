package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boggdan95/photo-to-post/internal/autopublish"
)

func newAutoPublishCommand(ctx *commandContext) *cobra.Command {
	var maxDelay int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "auto-publish",
		Short: "Publish every scheduled post whose slot has arrived",
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

				var gate *autopublish.Gate
				if dryRun {
					s, err := ctx.openStore()
					if err != nil {
						return err
					}
					defer s.Close()
					gate = autopublish.NewGate(cfg, s, nil, logger)
				} else {
					svc, s, err := newPublishService(ctx)
					if err != nil {
						return err
					}
					defer s.Close()
					gate = autopublish.NewGate(cfg, s, svc, logger)
				}

				result, err := gate.Run(cmd.Context(), autopublish.Options{
					MaxDelayHours: maxDelay,
					DryRun:        dryRun,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(result.Items) == 0 {
					fmt.Fprintln(out, "No scheduled posts")
					return nil
				}

				rows := make([][]string, 0, len(result.Items))
				for _, item := range result.Items {
					detail := ""
					switch {
					case item.Err != nil:
						detail = item.Err.Error()
					case item.InstagramID != "":
						detail = item.InstagramID
					case item.Class == autopublish.ClassTooLate:
						detail = fmt.Sprintf("%.1fh late", item.HoursLate)
					}
					rows = append(rows, []string{item.PostID, string(item.Class), detail})
				}
				fmt.Fprintln(out, renderTable([]string{"Post", "Verdict", "Detail"}, rows, nil))

				kind := statusOK
				if result.Failed > 0 || result.TooLate > 0 {
					kind = statusWarn
				}
				printStatusLine(out, kind, "auto-publish",
					fmt.Sprintf("%d published, %d failed, %d too late, %d not due, %d skipped",
						result.Published, result.Failed, result.TooLate, result.NotDue, result.Skipped))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&maxDelay, "max-delay", 0, "Override the configured max_delay_hours")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify without publishing")
	return cmd
}
