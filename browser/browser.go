package browser

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/ghiblidex/catalog"
	"github.com/s0up4200/ghiblidex/jikan"
)

// DefaultInitialCount is the number of movies shown after the initial load
const DefaultInitialCount = 6

// Browser is the catalog view controller. It owns the loaded catalog, the active
// result set and the search spacing, and reports every state change to a Presenter.
type Browser struct {
	api          jikan.API
	logger       zerolog.Logger
	spacer       *Spacer
	studio       string
	initialCount int

	mu             sync.RWMutex
	loaded         bool
	allMovies      []catalog.Movie
	currentResults []catalog.Movie
}

// Option configures a Browser
type Option func(*Browser)

// WithSpacer replaces the default 350ms search spacer
func WithSpacer(spacer *Spacer) Option {
	return func(b *Browser) {
		if spacer != nil {
			b.spacer = spacer
		}
	}
}

// WithStudio sets the brand substring search results must carry
func WithStudio(studio string) Option {
	return func(b *Browser) {
		if studio != "" {
			b.studio = studio
		}
	}
}

// WithInitialCount sets how many movies the initial load displays
func WithInitialCount(count int) Option {
	return func(b *Browser) {
		if count > 0 {
			b.initialCount = count
		}
	}
}

// New creates a Browser backed by api
func New(api jikan.API, logger zerolog.Logger, opts ...Option) *Browser {
	b := &Browser{
		api:          api,
		logger:       logger,
		spacer:       NewSpacer(DefaultSearchInterval),
		studio:       catalog.StudioName,
		initialCount: DefaultInitialCount,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Load fetches the producer's catalog, stores it as both the full catalog and the
// active result set, and displays its first entries. The load skips title validation
// and search spacing.
func (b *Browser) Load(ctx context.Context, p Presenter) error {
	p.ShowLoading()
	defer p.HideLoading()

	entries, err := b.api.ProducerCatalog(ctx)
	if err != nil {
		err = &LoadError{Err: err}
		b.logger.Error().Err(err).Msg("Error fetching movies")
		p.ShowError(UserMessage(err))
		return err
	}

	movies := catalog.FromAnimeList(entries)

	b.mu.Lock()
	b.loaded = true
	b.allMovies = movies
	b.currentResults = movies
	b.mu.Unlock()

	b.logger.Info().Int("count", len(movies)).Msg("Catalog loaded")

	p.ShowMovies(movies[:min(b.initialCount, len(movies))])
	return nil
}

// Loaded reports whether a catalog load has succeeded
func (b *Browser) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

// ShowInitial displays the first entries of the loaded catalog, as Load does
func (b *Browser) ShowInitial(p Presenter) {
	movies := b.Catalog()
	p.ShowMovies(movies[:min(b.initialCount, len(movies))])
}

// Search validates input, queries the API and displays the entries that pass the
// studio filter. Each step short-circuits the rest on failure.
func (b *Browser) Search(ctx context.Context, p Presenter, input string) error {
	p.ShowLoading()
	defer p.HideLoading()

	term := strings.TrimSpace(input)
	if term == "" {
		return b.reject(p, ErrEmptyInput)
	}
	if !catalog.IsKnownTitle(term) {
		return b.reject(p, &UnrecognizedTitleError{Term: term})
	}

	sentAt, err := b.spacer.Wait(ctx)
	if err != nil {
		return b.fail(p, &SearchError{Term: term, Err: err})
	}

	b.logger.Debug().Str("term", term).Time("sent_at", sentAt).Msg("Searching catalog")

	entries, err := b.api.Search(ctx, term)
	if err != nil {
		return b.fail(p, &SearchError{Term: term, Err: err})
	}

	matches := catalog.FilterByStudio(entries, b.studio)
	if len(matches) == 0 {
		return b.reject(p, &NoResultsError{Term: term, Returned: len(entries)})
	}

	movies := catalog.FromAnimeList(matches)

	b.mu.Lock()
	b.currentResults = movies
	b.mu.Unlock()

	b.logger.Info().
		Str("term", term).
		Int("returned", len(entries)).
		Int("shown", len(movies)).
		Msg("Search completed")

	p.ShowMovies(movies)
	return nil
}

// ViewAll displays the whole loaded catalog without touching the active result set
func (b *Browser) ViewAll(p Presenter) {
	p.ShowMovies(b.Catalog())
}

// ShowDetails opens the overlay for id. The lookup uses the full catalog, never the
// filtered results.
func (b *Browser) ShowDetails(p Presenter, id int) error {
	movie, ok := b.Movie(id)
	if !ok {
		b.logger.Debug().Int("id", id).Msg("Details requested for movie outside catalog")
		return ErrMovieNotFound
	}

	p.ShowDetails(movie)
	return nil
}

// Movie looks id up in the full catalog
func (b *Browser) Movie(id int) (catalog.Movie, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return catalog.FindByID(b.allMovies, id)
}

// Catalog returns a copy of the full catalog
func (b *Browser) Catalog() []catalog.Movie {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.allMovies)
}

// CurrentResults returns a copy of the active result set
func (b *Browser) CurrentResults() []catalog.Movie {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.currentResults)
}

// reject reports a validation outcome
func (b *Browser) reject(p Presenter, err error) error {
	b.logger.Debug().Err(err).Msg("Search rejected")
	p.ShowError(UserMessage(err))
	return err
}

// fail reports a failed request
func (b *Browser) fail(p Presenter, err error) error {
	b.logger.Error().Err(err).Msg("Search error")
	p.ShowError(UserMessage(err))
	return err
}
