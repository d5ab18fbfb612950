package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newBookmarksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmarks",
		Short: "List your bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.client.HasToken() {
				return errors.New("bookmarks need an access token (--token or BOOKISH_TOKEN)")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout(a.cfg))
			defer cancel()

			list, err := a.client.ListBookmarks(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("TYPE", "TITLE", "ID", "SAVED")
			for _, b := range list {
				t.Row(string(b.ItemType), b.Title, b.ItemID, b.CreatedAt.Format("2006-01-02"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
}
