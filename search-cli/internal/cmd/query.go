package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchstate"
)

// queryResult is the --json output of the query command.
type queryResult struct {
	Query       string           `json:"query"`
	Category    string           `json:"category"`
	Total       int              `json:"total"`
	HasMore     bool             `json:"has_more"`
	Results     []searchapi.Item `json:"results"`
	Suggestions []string         `json:"suggestions,omitempty"`
}

func newQueryCmd(a *app) *cobra.Command {
	var (
		pages  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run one search and print the results",
		Long: `Runs a single search without the interactive screen.

Example:
  bookish-search query dune
  bookish-search query tolkien --category authors --pages 3 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := a.newManager()
			defer mgr.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout(a.cfg)*time.Duration(max(pages, 1)))
			defer cancel()

			s, err := runQuery(ctx, mgr, strings.Join(args, " "), pages)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), s)
			}
			printTable(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	return cmd
}

// runQuery submits text and loads up to pages pages.
func runQuery(ctx context.Context, mgr *searchstate.Manager, text string, pages int) (searchstate.State, error) {
	mgr.Submit(text)
	if err := mgr.WaitIdle(ctx); err != nil {
		return searchstate.State{}, err
	}

	for i := 1; i < pages; i++ {
		if !mgr.State().HasMore() {
			break
		}
		mgr.LoadMore()
		if err := mgr.WaitIdle(ctx); err != nil {
			return searchstate.State{}, err
		}
	}

	s := mgr.State()
	if s.Err != "" {
		return s, errors.New(s.Err)
	}
	return s, nil
}

func printJSON(w io.Writer, s searchstate.State) error {
	results := s.Results
	if results == nil {
		results = []searchapi.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(queryResult{
		Query:       s.Query,
		Category:    string(s.Category),
		Total:       s.Total,
		HasMore:     s.HasMore(),
		Results:     results,
		Suggestions: s.Suggestions,
	})
}

func printTable(w io.Writer, s searchstate.State) {
	if len(s.Results) == 0 {
		fmt.Fprintf(w, "No results for %q\n", s.Query)
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TYPE", "TITLE", "DETAILS", "ID")
	for _, item := range s.Results {
		t.Row(string(item.Type), item.Title, item.Subtitle, item.ID)
	}
	fmt.Fprintln(w, t.String())

	footer := fmt.Sprintf("%d of %d %s", len(s.Results), max(s.Total, len(s.Results)), strings.ToLower(s.Category.Label()))
	if s.HasMore() {
		footer += " (more available, use --pages)"
	}
	fmt.Fprintln(w, footer)
	if len(s.Suggestions) > 0 {
		fmt.Fprintf(w, "Related: %s\n", strings.Join(s.Suggestions, ", "))
	}
}
