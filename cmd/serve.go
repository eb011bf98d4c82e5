package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/ghiblidex/browser"
	"github.com/s0up4200/ghiblidex/render"
)

const shutdownTimeout = 5 * time.Second

var serveAddress string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog browser web page",
	Long: `Serve a single-page browser for the Studio Ghibli catalog.

The catalog is loaded once at startup. Searches, "view all" and the detail overlay
are served as HTML fragments that the page swaps into place.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address (overrides server.address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddress != "" {
		cfg.Server.Address = serveAddress
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}

	// a failed load is reported on the page; GET / retries it
	_ = movieBrowser.Load(cmd.Context(), render.NewRegion())

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newRouter(movieBrowser, renderer, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		logger.Info().Str("address", srv.Addr).Msg("Starting web server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		logger.Info().Msg("Shutting down web server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// server serves the browser over HTTP. The catalog browser is shared; each request
// renders its own Region.
type server struct {
	browser  *browser.Browser
	renderer *render.Renderer
	logger   zerolog.Logger
}

func newRouter(b *browser.Browser, renderer *render.Renderer, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	s := &server{
		browser:  b,
		renderer: renderer,
		logger:   logger.With().Str("component", "web").Logger(),
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/", s.handleIndex)
	router.GET("/results/search", s.handleSearch)
	router.GET("/results/all", s.handleViewAll)
	router.GET("/movies/:id", s.handleDetails)
	router.GET("/healthz", s.handleHealth)

	return router
}

func (s *server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}

func (s *server) handleIndex(c *gin.Context) {
	region := render.NewRegion()
	query := c.Query("q")

	switch {
	case !s.browser.Loaded():
		_ = s.browser.Load(c.Request.Context(), region)
	case query != "":
		_ = s.browser.Search(c.Request.Context(), region, query)
	default:
		s.browser.ShowInitial(region)
	}

	s.html(c, http.StatusOK, func(w io.Writer) error {
		return s.renderer.Page(w, query, region)
	})
}

func (s *server) handleSearch(c *gin.Context) {
	region := render.NewRegion()
	err := s.browser.Search(c.Request.Context(), region, c.Query("q"))

	s.html(c, searchStatus(err), func(w io.Writer) error {
		return s.renderer.Results(w, region)
	})
}

func (s *server) handleViewAll(c *gin.Context) {
	region := render.NewRegion()
	s.browser.ViewAll(region)

	s.html(c, http.StatusOK, func(w io.Writer) error {
		return s.renderer.Results(w, region)
	})
}

func (s *server) handleDetails(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid movie id")
		return
	}

	region := render.NewRegion()
	if err := s.browser.ShowDetails(region, id); err != nil {
		c.String(http.StatusNotFound, "movie not found")
		return
	}

	movie, _ := region.Details()
	s.html(c, http.StatusOK, func(w io.Writer) error {
		return s.renderer.Overlay(w, movie)
	})
}

// html buffers a rendered template so a template error can still become a 500
func (s *server) html(c *gin.Context, status int, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Failed to render template")
		c.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"loaded": s.browser.Loaded(),
		"movies": len(s.browser.Catalog()),
	})
}

// searchStatus maps a search outcome onto an HTTP status. The body always carries
// the rendered message.
func searchStatus(err error) int {
	var (
		unrecognized *browser.UnrecognizedTitleError
		noResults    *browser.NoResultsError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, browser.ErrEmptyInput), errors.As(err, &unrecognized):
		return http.StatusBadRequest
	case errors.As(err, &noResults):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusBadGateway
	}
}
