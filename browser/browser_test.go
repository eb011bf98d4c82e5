package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/ghiblidex/catalog"
	"github.com/s0up4200/ghiblidex/jikan"
)

// recorder implements Presenter and keeps every signal in order
type recorder struct {
	mu      sync.Mutex
	events  []string
	movies  []catalog.Movie
	details *catalog.Movie
	message string
}

func (r *recorder) ShowLoading() { r.add("loading") }
func (r *recorder) HideLoading() { r.add("hide") }

func (r *recorder) ShowError(message string) {
	r.add("error")
	r.message = message
}

func (r *recorder) ShowMovies(movies []catalog.Movie) {
	r.add(fmt.Sprintf("movies:%d", len(movies)))
	r.movies = movies
}

func (r *recorder) ShowDetails(movie catalog.Movie) {
	r.add("details")
	r.details = &movie
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// fakeAPI implements jikan.API
type fakeAPI struct {
	catalog    []jikan.Anime
	catalogErr error
	results    []jikan.Anime
	searchErr  error

	searches    []string
	searchTimes []time.Time
	clock       func() time.Time
}

func (f *fakeAPI) ProducerCatalog(ctx context.Context) ([]jikan.Anime, error) {
	return f.catalog, f.catalogErr
}

func (f *fakeAPI) Search(ctx context.Context, term string) ([]jikan.Anime, error) {
	f.searches = append(f.searches, term)
	if f.clock != nil {
		f.searchTimes = append(f.searchTimes, f.clock())
	}
	return f.results, f.searchErr
}

// fakeClock advances only when the spacer sleeps
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	cancel bool
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.cancel {
		return context.Canceled
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func newFakeSpacer(clock *fakeClock) *Spacer {
	s := NewSpacer(DefaultSearchInterval)
	s.now = clock.Now
	s.sleep = clock.Sleep
	return s
}

func ghibli(id int, englishTitle string) jikan.Anime {
	return jikan.Anime{
		MalID:        id,
		Title:        fmt.Sprintf("native-%d", id),
		TitleEnglish: englishTitle,
		Studios:      []jikan.Resource{{Name: "Studio Ghibli"}},
		Score:        8.0,
	}
}

func catalogOf(n int) []jikan.Anime {
	entries := make([]jikan.Anime, 0, n)
	for i := 1; i <= n; i++ {
		entries = append(entries, ghibli(i, fmt.Sprintf("Film %d", i)))
	}
	return entries
}

func newTestBrowser(api jikan.API, opts ...Option) *Browser {
	return New(api, zerolog.Nop(), opts...)
}

func TestLoad(t *testing.T) {
	api := &fakeAPI{catalog: catalogOf(9)}
	b := newTestBrowser(api)
	p := &recorder{}

	require.NoError(t, b.Load(context.Background(), p))

	assert.Equal(t, []string{"loading", "movies:6", "hide"}, p.events)
	assert.Equal(t, 1, p.movies[0].ID)
	assert.Len(t, b.Catalog(), 9)
	assert.Len(t, b.CurrentResults(), 9)
}

func TestShowInitialAfterLoad(t *testing.T) {
	b := newTestBrowser(&fakeAPI{catalog: catalogOf(9)}, WithInitialCount(4))
	assert.False(t, b.Loaded())

	require.NoError(t, b.Load(context.Background(), &recorder{}))
	assert.True(t, b.Loaded())

	p := &recorder{}
	b.ShowInitial(p)
	assert.Equal(t, []string{"movies:4"}, p.events)
}

func TestLoadFewerThanInitialCount(t *testing.T) {
	b := newTestBrowser(&fakeAPI{catalog: catalogOf(2)}, WithInitialCount(10))
	p := &recorder{}

	require.NoError(t, b.Load(context.Background(), p))
	assert.Equal(t, []string{"loading", "movies:2", "hide"}, p.events)
}

func TestLoadFailure(t *testing.T) {
	api := &fakeAPI{catalogErr: &jikan.APIError{StatusCode: http.StatusInternalServerError}}
	b := newTestBrowser(api)
	p := &recorder{}

	err := b.Load(context.Background(), p)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, []string{"loading", "error", "hide"}, p.events)
	assert.Equal(t, "Failed to load movies. Please try again later.", p.message)
	assert.Empty(t, b.Catalog())
}

func TestSearchValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{
			name:    "empty",
			input:   "",
			message: "Please enter a movie title",
		},
		{
			name:    "whitespace only",
			input:   "   \t ",
			message: "Please enter a movie title",
		},
		{
			name:    "unknown title",
			input:   " Batman ",
			message: `"Batman" is not a valid Studio Ghibli film. Try: "Spirited Away", "Totoro", etc.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{results: []jikan.Anime{ghibli(1, "Spirited Away")}}
			b := newTestBrowser(api)
			p := &recorder{}

			err := b.Search(context.Background(), p, tt.input)
			require.Error(t, err)

			assert.Empty(t, api.searches, "validation failures must not reach the API")
			assert.Equal(t, []string{"loading", "error", "hide"}, p.events)
			assert.Equal(t, tt.message, p.message)
		})
	}

	t.Run("error types", func(t *testing.T) {
		b := newTestBrowser(&fakeAPI{})
		assert.ErrorIs(t, b.Search(context.Background(), &recorder{}, " "), ErrEmptyInput)

		var unrecognized *UnrecognizedTitleError
		require.ErrorAs(t, b.Search(context.Background(), &recorder{}, "Batman"), &unrecognized)
		assert.Equal(t, "Batman", unrecognized.Term)
	})
}

func TestSearchSuccess(t *testing.T) {
	api := &fakeAPI{
		catalog: catalogOf(3),
		results: []jikan.Anime{
			ghibli(523, "My Neighbor Totoro"),
			{MalID: 999, Title: "Totoro Fan Film", Studios: []jikan.Resource{{Name: "Other"}}},
		},
	}
	b := newTestBrowser(api)
	require.NoError(t, b.Load(context.Background(), &recorder{}))

	p := &recorder{}
	require.NoError(t, b.Search(context.Background(), p, "  totoro "))

	assert.Equal(t, []string{"totoro"}, api.searches)
	assert.Equal(t, []string{"loading", "movies:1", "hide"}, p.events)
	assert.Equal(t, "My Neighbor Totoro", p.movies[0].Title)

	assert.Len(t, b.CurrentResults(), 1)
	assert.Len(t, b.Catalog(), 3, "search must not replace the full catalog")
}

func TestSearchNoResults(t *testing.T) {
	api := &fakeAPI{results: []jikan.Anime{
		{MalID: 1, Studios: []jikan.Resource{{Name: "Madhouse"}}},
		{MalID: 2, Studios: []jikan.Resource{{Name: "studio ghibli"}}},
		{MalID: 3},
	}}
	b := newTestBrowser(api)
	p := &recorder{}

	err := b.Search(context.Background(), p, "Ponyo")

	var noResults *NoResultsError
	require.ErrorAs(t, err, &noResults)
	assert.Equal(t, 3, noResults.Returned)
	assert.Equal(t, []string{"loading", "error", "hide"}, p.events)
	assert.Equal(t, `No Ghibli movies found for "Ponyo". Try an exact title match.`, p.message)
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "http status",
			err:     fmt.Errorf("failed to search: %w", &jikan.APIError{StatusCode: 503, Message: "Service Unavailable"}),
			message: "Search failed: API error: 503",
		},
		{
			name:    "transport",
			err:     &jikan.TransportError{URL: "http://x", Err: errors.New("connection refused")},
			message: "Search failed: connection refused",
		},
		{
			name:    "other",
			err:     errors.New("failed to parse response"),
			message: "Search failed: failed to parse response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{catalog: catalogOf(2), searchErr: tt.err}
			b := newTestBrowser(api)
			require.NoError(t, b.Load(context.Background(), &recorder{}))

			p := &recorder{}
			err := b.Search(context.Background(), p, "Ponyo")

			var searchErr *SearchError
			require.ErrorAs(t, err, &searchErr)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, []string{"loading", "error", "hide"}, p.events)
			assert.Equal(t, tt.message, p.message)
			assert.Len(t, b.CurrentResults(), 2, "failed search keeps the previous results")
		})
	}
}

func TestSearchSpacing(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	api := &fakeAPI{results: []jikan.Anime{ghibli(1, "Ponyo")}, clock: clock.Now}
	b := newTestBrowser(api, WithSpacer(newFakeSpacer(clock)))

	require.NoError(t, b.Search(context.Background(), &recorder{}, "Ponyo"))
	clock.now = clock.now.Add(100 * time.Millisecond)
	require.NoError(t, b.Search(context.Background(), &recorder{}, "Ponyo"))
	clock.now = clock.now.Add(time.Second)
	require.NoError(t, b.Search(context.Background(), &recorder{}, "Ponyo"))

	require.Len(t, api.searchTimes, 3)
	assert.Equal(t, DefaultSearchInterval, api.searchTimes[1].Sub(api.searchTimes[0]))
	assert.GreaterOrEqual(t, api.searchTimes[2].Sub(api.searchTimes[1]), DefaultSearchInterval)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, clock.slept)
}

func TestSearchSpacingAfterLateWake(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	api := &fakeAPI{results: []jikan.Anime{ghibli(1, "Ponyo")}, clock: clock.Now}
	spacer := newFakeSpacer(clock)

	late := true
	spacer.sleep = func(ctx context.Context, d time.Duration) error {
		clock.now = clock.now.Add(d)
		if late {
			clock.now = clock.now.Add(50 * time.Millisecond)
			late = false
		}
		return nil
	}
	b := newTestBrowser(api, WithSpacer(spacer))

	for range 3 {
		require.NoError(t, b.Search(context.Background(), &recorder{}, "Ponyo"))
	}

	require.Len(t, api.searchTimes, 3)
	assert.Equal(t, 400*time.Millisecond, api.searchTimes[1].Sub(api.searchTimes[0]))
	assert.Equal(t, DefaultSearchInterval, api.searchTimes[2].Sub(api.searchTimes[1]))
}

func TestSearchSpacingCancelled(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	api := &fakeAPI{results: []jikan.Anime{ghibli(1, "Ponyo")}}
	b := newTestBrowser(api, WithSpacer(newFakeSpacer(clock)))

	require.NoError(t, b.Search(context.Background(), &recorder{}, "Ponyo"))

	clock.cancel = true
	p := &recorder{}
	err := b.Search(context.Background(), p, "Ponyo")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, api.searches, 1, "cancelled wait must not issue a request")
	assert.Equal(t, "Search failed: context canceled", p.message)
}

func TestSearchAgainstServer(t *testing.T) {
	var (
		mu       sync.Mutex
		arrivals []time.Time
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		w.Write([]byte(`{"data":[{"mal_id":199,"title":"Sen to Chihiro","title_english":"Spirited Away","studios":[{"name":"Studio Ghibli"}],"score":8.67}]}`))
	}))
	defer server.Close()

	client, err := jikan.NewClient(server.URL, jikan.StudioGhibliProducerID, zerolog.Nop())
	require.NoError(t, err)

	spacer := NewSpacer(DefaultSearchInterval)
	b := newTestBrowser(client, WithSpacer(spacer))

	p := &recorder{}
	require.NoError(t, b.Search(context.Background(), p, "Spirited"))
	first := spacer.Last()
	require.NoError(t, b.Search(context.Background(), p, "Spirited"))
	second := spacer.Last()

	assert.GreaterOrEqual(t, second.Sub(first), DefaultSearchInterval)
	require.Len(t, arrivals, 2)
	assert.Equal(t, 87, p.movies[0].Score)
}

func TestViewAll(t *testing.T) {
	b := newTestBrowser(&fakeAPI{catalog: catalogOf(8), results: []jikan.Anime{ghibli(2, "Ponyo")}})
	require.NoError(t, b.Load(context.Background(), &recorder{}))
	require.NoError(t, b.Search(context.Background(), &recorder{}, "Ponyo"))

	p := &recorder{}
	b.ViewAll(p)

	assert.Equal(t, []string{"movies:8"}, p.events)
	assert.Len(t, b.CurrentResults(), 1)
}

func TestViewAllBeforeLoad(t *testing.T) {
	p := &recorder{}
	newTestBrowser(&fakeAPI{}).ViewAll(p)
	assert.Equal(t, []string{"movies:0"}, p.events)
}

func TestShowDetailsUsesFullCatalog(t *testing.T) {
	full := catalogOf(3)
	full[1].Synopsis = "catalog synopsis"

	searchCopy := ghibli(2, "Different Title In Search")
	searchCopy.Synopsis = "search synopsis"

	api := &fakeAPI{catalog: full, results: []jikan.Anime{searchCopy, ghibli(77, "Ponyo")}}
	b := newTestBrowser(api)
	require.NoError(t, b.Load(context.Background(), &recorder{}))
	require.NoError(t, b.Search(context.Background(), &recorder{}, "Ponyo"))

	p := &recorder{}
	require.NoError(t, b.ShowDetails(p, 2))
	require.NotNil(t, p.details)
	assert.Equal(t, "Film 2", p.details.Title)
	assert.Equal(t, "catalog synopsis", p.details.Description)

	// present in the displayed results but not in the catalog
	p = &recorder{}
	assert.ErrorIs(t, b.ShowDetails(p, 77), ErrMovieNotFound)
	assert.Empty(t, p.events)
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, "Something went wrong. Please try again.", UserMessage(errors.New("boom")))
	assert.Equal(t, "Failed to load movies. Please try again later.",
		UserMessage(&LoadError{Err: &jikan.APIError{StatusCode: 500}}))
}
