package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var clearHistory bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := a.newManager()
			defer mgr.Close()

			if clearHistory {
				return mgr.ClearHistory(cmd.Context())
			}

			recent, err := mgr.RecentSearches(cmd.Context())
			if err != nil {
				return err
			}
			if len(recent) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recent searches")
				return nil
			}
			for _, q := range recent {
				fmt.Fprintln(cmd.OutOrStdout(), q)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearHistory, "clear", false, "forget recent searches")
	return cmd
}
