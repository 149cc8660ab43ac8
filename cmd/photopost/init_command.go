package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boggdan95/photo-to-post/internal/post"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the pipeline directories and database",
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

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pipeline initialized at %s\n", cfg.Paths.BaseDir)
			for _, stage := range post.AllStages() {
				fmt.Fprintf(out, "  %s\n", cfg.StageDir(stage))
			}
			return nil
		},
	}
}
