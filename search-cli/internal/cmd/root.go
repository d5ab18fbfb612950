// Package cmd holds the bookish-search commands.
package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/kvstore"
	pkglog "github.com/GrandEmpereur/Bookish-sub000/pkg/log"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchstate"
	"github.com/GrandEmpereur/Bookish-sub000/search-cli/internal/config"
	"github.com/GrandEmpereur/Bookish-sub000/search-cli/internal/ui"
)

// version is set at build time via ldflags.
var version = "dev"

// app carries what the commands share once flags and config are resolved.
type app struct {
	configFile string
	cfg        *config.Config
	client     *searchapi.Client
	store      kvstore.Store
}

// NewRootCmd builds the bookish-search command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bookish-search",
		Short: "Search Bookish from the terminal",
		Long: `bookish-search searches Bookish users, books, clubs, book lists and authors.

Without a subcommand it opens an interactive search screen: results update as
you type, tab switches category and scrolling past the last row loads more.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: a.runInteractive,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: ./config/search-cli.yaml)")
	flags.String("api", "", "Search API base URL")
	flags.String("token", "", "access token, enables bookmarks")
	flags.String("category", "", "initial category: all, users, books, clubs, book_lists, authors")
	flags.Duration("debounce", 0, "delay between the last keystroke and the search")
	flags.Int("limit", 0, "results per page")

	root.AddCommand(newQueryCmd(a), newHistoryCmd(a), newBookmarksCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, _, err := config.Load(a.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api") {
		cfg.API.URL, _ = flags.GetString("api")
	}
	if flags.Changed("token") {
		cfg.API.Token, _ = flags.GetString("token")
	}
	if flags.Changed("category") {
		cfg.Search.Category, _ = flags.GetString("category")
	}
	if flags.Changed("debounce") {
		cfg.Search.Debounce, _ = flags.GetDuration("debounce")
	}
	if flags.Changed("limit") {
		cfg.Search.Limit, _ = flags.GetInt("limit")
	}
	if _, err := searchapi.ParseCategory(cfg.Search.Category); err != nil {
		return err
	}

	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		ServiceName: "search-cli",
		File:        cfg.Log.File,
	})

	store, err := kvstore.NewFileStore(kvstore.FileConfig{BasePath: cfg.History.Dir})
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}

	a.cfg = cfg
	a.store = store
	a.client = searchapi.New(cfg.API.URL, searchapi.WithToken(cfg.API.Token))
	return nil
}

func (a *app) newManager() *searchstate.Manager {
	category, _ := searchapi.ParseCategory(a.cfg.Search.Category)
	return searchstate.New(a.client,
		searchstate.WithDebounce(a.cfg.Search.Debounce),
		searchstate.WithPageSize(a.cfg.Search.Limit),
		searchstate.WithMinQueryLength(a.cfg.Search.MinQueryLength),
		searchstate.WithCategory(category),
		searchstate.WithStore(a.store),
		searchstate.WithLogger(pkglog.L()),
	)
}

func (a *app) runInteractive(cmd *cobra.Command, args []string) error {
	mgr := a.newManager()
	defer mgr.Close()

	var bookmarks ui.Bookmarks
	if a.client.HasToken() {
		bookmarks = a.client
	}

	l := pkglog.L()
	l.Info().Str(pkglog.FieldURL, a.cfg.API.URL).Msg("interactive search started")

	p := tea.NewProgram(ui.New(mgr, bookmarks), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err := p.Run()
	return err
}

func requestTimeout(cfg *config.Config) time.Duration {
	if cfg.API.Timeout > 0 {
		return cfg.API.Timeout
	}
	return 15 * time.Second
}
