package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/ghiblidex/browser"
	"github.com/s0up4200/ghiblidex/catalog"
	"github.com/s0up4200/ghiblidex/config"
	"github.com/s0up4200/ghiblidex/filter"
	"github.com/s0up4200/ghiblidex/jikan"
	"github.com/s0up4200/ghiblidex/render"
)

var (
	cfgFile       string
	logLevel      string
	cfg           *config.Config
	logger        zerolog.Logger
	jikanClient   *jikan.Client
	movieBrowser  *browser.Browser
	filterManager *filter.Manager

	// Command flags
	filterExpr  string
	preset      string
	listAll     bool
	showPosters bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ghiblidex",
	Short: "Browse the Studio Ghibli film catalog",
	Long: `ghiblidex browses the Studio Ghibli catalog published by the Jikan API.

It lists and searches the films from the terminal, or serves a small web page
with search, a "view all" button and a detail overlay per film.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: closeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		var shown *reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// reportedError marks a failure the presenter has already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration, the API client and the browser
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		if err := cfg.SetLogLevel(logLevel); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	logger = setupLogger(cfg.Logging, os.Stderr)

	opts := []jikan.Option{jikan.WithUserAgent(cfg.Jikan.UserAgent)}
	if cfg.Jikan.Timeout > 0 {
		opts = append(opts, jikan.WithTimeout(cfg.Jikan.Timeout))
	}

	jikanClient, err = jikan.NewClient(cfg.Jikan.URL, cfg.Jikan.ProducerID, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Jikan client: %w", err)
	}

	movieBrowser = newBrowser(jikanClient, cfg, logger)

	filterManager = filter.NewManager()
	if err := filterManager.RegisterFilters(cfg.Filter.PresetExpressions()); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	return nil
}

// closeApp stops the filter workers started by the command
func closeApp(cmd *cobra.Command, args []string) error {
	if filterManager == nil {
		return nil
	}
	return filterManager.Close(context.Background())
}

func newBrowser(api jikan.API, cfg *config.Config, logger zerolog.Logger) *browser.Browser {
	return browser.New(api, logger,
		browser.WithSpacer(browser.NewSpacer(cfg.Search.MinInterval)),
		browser.WithStudio(cfg.Search.Studio),
		browser.WithInitialCount(cfg.Catalog.InitialCount),
	)
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out *os.File) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(out.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// consolePresenter prints browser output with the console formatter
type consolePresenter struct {
	out       io.Writer
	formatter catalog.Formatter
	options   catalog.FormatOptions
	logger    zerolog.Logger
	shown     bool
}

func newConsolePresenter(out io.Writer) *consolePresenter {
	return &consolePresenter{
		out:       out,
		formatter: catalog.NewConsoleFormatter(),
		options:   catalog.FormatOptions{ShowDescription: true, ShowPoster: showPosters},
		logger:    logger,
	}
}

func (p *consolePresenter) ShowLoading() {
	p.logger.Debug().Msg("Loading...")
}

func (p *consolePresenter) HideLoading() {}

func (p *consolePresenter) ShowError(message string) {
	p.shown = true
	fmt.Fprintln(p.out, message)
}

// reported wraps err so Execute does not print a message the user has already seen
func (p *consolePresenter) reported(err error) error {
	if err == nil || !p.shown {
		return err
	}
	p.logger.Debug().Err(err).Msg("Command failed")
	return &reportedError{err: err}
}

func (p *consolePresenter) ShowMovies(movies []catalog.Movie) {
	fmt.Fprint(p.out, p.formatter.FormatMovieList(movies, p.options))
}

func (p *consolePresenter) ShowDetails(movie catalog.Movie) {
	fmt.Fprint(p.out, p.formatter.FormatMovieDetails(movie))
}

// loadCatalog loads the catalog without printing the initial page
func loadCatalog(ctx context.Context) error {
	region := render.NewRegion()
	if err := movieBrowser.Load(ctx, region); err != nil {
		return fmt.Errorf("%s: %w", region.Message(), err)
	}
	return nil
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List films from the catalog",
	Long: `List films from the Studio Ghibli catalog.

Without flags the first page of the catalog is shown. --all shows every film, and
--filter or --preset narrows the catalog with an expression such as
'directedBy("Miyazaki") and Year > 2000'.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "show the whole catalog")
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	listCmd.Flags().BoolVar(&showPosters, "posters", false, "print poster URLs")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	presenter := newConsolePresenter(cmd.OutOrStdout())

	expr, usePreset := getFilterExpression()
	if expr == "" && !usePreset {
		if !listAll {
			return presenter.reported(movieBrowser.Load(ctx, presenter))
		}
		if err := loadCatalog(ctx); err != nil {
			return err
		}
		movieBrowser.ViewAll(presenter)
		return nil
	}

	if err := loadCatalog(ctx); err != nil {
		return err
	}

	var (
		movies []catalog.Movie
		err    error
	)
	if usePreset {
		logger.Info().Str("preset", preset).Msg("Filtering catalog")
		movies, err = filterManager.EvaluateFilter(ctx, preset, movieBrowser.Catalog())
	} else {
		logger.Info().Str("filter", expr).Msg("Filtering catalog")
		movies, err = filterManager.EvaluateExpression(ctx, expr, movieBrowser.Catalog())
	}
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	presenter.ShowMovies(movies)
	return nil
}

// getFilterExpression picks the filter to apply: --filter, then --preset, then the
// configured default. The boolean is true when a preset should be used by name.
func getFilterExpression() (string, bool) {
	if filterExpr != "" {
		return filterExpr, false
	}

	if preset != "" {
		return "", true
	}

	return cfg.Filter.DefaultExpression, false
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <title...>",
	Short: "Search the catalog by title",
	Long: `Search Jikan for a Studio Ghibli film.

The title must match one of the known Ghibli films, e.g. "Spirited Away" or "Totoro".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	presenter := newConsolePresenter(cmd.OutOrStdout())
	return presenter.reported(movieBrowser.Search(cmd.Context(), presenter, strings.Join(args, " ")))
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the details of one film",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid movie id %q", args[0])
	}

	if err := loadCatalog(cmd.Context()); err != nil {
		return err
	}

	if err := movieBrowser.ShowDetails(newConsolePresenter(cmd.OutOrStdout()), id); err != nil {
		if errors.Is(err, browser.ErrMovieNotFound) {
			return fmt.Errorf("movie #%d is not in the catalog", id)
		}
		return err
	}

	return nil
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the Jikan API",
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to Jikan at %s...\n", cfg.Jikan.URL)

	if err := jikanClient.TestConnection(cmd.Context()); err != nil {
		var apiErr *jikan.APIError
		if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
			return fmt.Errorf("jikan is rate limiting requests, try again shortly: %w", err)
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	fmt.Fprintln(out, "✓ Connection successful!")
	fmt.Fprintf(out, "- Producer: %d\n", jikanClient.ProducerID())
	fmt.Fprintf(out, "- Search spacing: %s\n", cfg.Search.MinInterval)
	fmt.Fprintf(out, "- Studio filter: %s\n", cfg.Search.Studio)

	if names := filterManager.ListFilters(); len(names) > 0 {
		fmt.Fprintf(out, "\nFilter presets:\n")
		for _, name := range names {
			fmt.Fprintf(out, "  • %s: %s\n", name, cfg.Filter.Presets[name].Expression)
		}
	}

	return nil
}
