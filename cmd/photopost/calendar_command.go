package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/boggdan95/photo-to-post/internal/calendar"
	"github.com/boggdan95/photo-to-post/internal/post"
)

func newCalendarCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Show scheduled and published posts by date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			scheduled, err := s.List(cmd.Context(), post.StageScheduled)
			if err != nil {
				return err
			}
			published, err := s.List(cmd.Context(), post.StagePublished)
			if err != nil {
				return err
			}

			view := calendar.Build(scheduled, published, cfg.Calendar.DiversityWarnThreshold)
			out := cmd.OutOrStdout()
			if view.Total() == 0 {
				fmt.Fprintln(out, "Calendar is empty")
				return nil
			}

			var rows [][]string
			warnings := 0
			for _, day := range view.Days {
				date := day.Date
				if date == calendar.SentinelDate {
					date = "(no date)"
				}
				for _, entry := range day.Entries {
					flag := ""
					if entry.DiversityWarn {
						flag = "!"
						warnings++
					}
					rows = append(rows, []string{
						date, entry.Time, entry.ID, entry.Country, entry.Location,
						string(entry.Status), strconv.Itoa(entry.PhotoCount), flag,
					})
				}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Date", "Time", "Post", "Country", "Location", "Status", "Photos", ""},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))

			if warnings > 0 {
				printStatusLine(out, statusWarn, "diversity",
					fmt.Sprintf("%d posts exceed %d consecutive from the same country",
						warnings, cfg.Calendar.DiversityWarnThreshold))
			}
			return nil
		},
	}
}
