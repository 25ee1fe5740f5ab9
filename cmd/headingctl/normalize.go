package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_heading_command/internal/adapters/logger"
	"github.com/baditaflorin/go_heading_command/internal/adapters/stream"
)

func newNormalizeCmd(a *app) *cobra.Command {
	var (
		workers   int
		batchSize int
		keepEmpty bool
	)

	cmd := &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Print the identifier token of each argument, or of each stdin line",
		Example: `  headingctl normalize "Büro-Tür"
  cat titles.txt | headingctl normalize --workers 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := a.newNormalizer()
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				for _, arg := range args {
					fmt.Fprintln(out, n.Normalize(arg))
				}
				return nil
			}

			p := stream.NewLineNormalizer(logger.FromExisting(a.logger), n, stream.Config{
				Workers:   workers,
				BatchSize: batchSize,
				KeepEmpty: keepEmpty,
			})
			_, err := p.Process(cmd.Context(), cmd.InOrStdin(), out)
			return err
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 1, "worker goroutines for stdin input (0 = one per CPU)")
	cmd.Flags().IntVar(&batchSize, "batch-size", stream.DefaultBatchSize, "lines per worker job")
	cmd.Flags().BoolVar(&keepEmpty, "keep-empty", false, "print an empty line for each blank input line")
	return cmd
}
