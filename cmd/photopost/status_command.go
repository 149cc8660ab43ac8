package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/boggdan95/photo-to-post/internal/post"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show post counts per pipeline stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.Stats(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(post.AllStages()))
			total := 0
			for _, stage := range post.AllStages() {
				rows = append(rows, []string{string(stage), strconv.Itoa(stats[stage])})
				total += stats[stage]
			}
			rows = append(rows, []string{"total", strconv.Itoa(total)})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Stage", "Posts"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}
