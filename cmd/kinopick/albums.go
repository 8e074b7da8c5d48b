package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func albumsCmd() *cobra.Command {
	var f pickFlags

	cmd := &cobra.Command{
		Use:           "albums [root]",
		Short:         "List albums with their photo and video counts",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd, args)
			if err != nil {
				return err
			}
			logger := setupLogger(cfg)

			lib, err := openLibrary(cfg, f.match, logger)
			if err != nil {
				return err
			}

			albums, err := lib.Albums(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list albums: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, a := range albums {
				fmt.Fprintf(w, "%s\t%d\n", a.DisplayName(), a.Count)
			}
			return w.Flush()
		},
	}
	f.register(cmd)
	return cmd
}
