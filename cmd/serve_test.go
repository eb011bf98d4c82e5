package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/ghiblidex/browser"
	"github.com/s0up4200/ghiblidex/jikan"
	"github.com/s0up4200/ghiblidex/render"
)

type anime map[string]any

func ghibliEntry(id int, title string, score any) anime {
	return anime{
		"mal_id":         id,
		"title":          title,
		"title_english":  title,
		"studios":        []anime{{"name": "Studio Ghibli"}},
		"score":          score,
		"year":           2001,
		"synopsis":       strings.Repeat("s", 200),
		"images":         anime{"jpg": anime{"large_image_url": "https://cdn.example/" + title + ".jpg"}},
		"title_japanese": "japanese",
	}
}

// jikanStub serves the producer catalog and title searches
type jikanStub struct {
	catalog     []anime
	results     []anime
	catalogFail atomic.Bool
	searchFail  atomic.Bool
}

func (s *jikanStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("producer") != "21" {
		http.Error(w, "missing producer", http.StatusBadRequest)
		return
	}

	data := s.catalog
	if query.Get("q") != "" {
		if s.searchFail.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		data = s.results
	} else if s.catalogFail.Load() {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func newTestServer(t *testing.T, stub *jikanStub) (*httptest.Server, *browser.Browser) {
	t.Helper()

	api := httptest.NewServer(stub)
	t.Cleanup(api.Close)

	client, err := jikan.NewClient(api.URL, jikan.StudioGhibliProducerID, zerolog.Nop())
	require.NoError(t, err)

	b := browser.New(client, zerolog.Nop(), browser.WithSpacer(browser.NewSpacer(0)))

	renderer, err := render.New()
	require.NoError(t, err)

	srv := httptest.NewServer(newRouter(b, renderer, zerolog.Nop()))
	t.Cleanup(srv.Close)

	return srv, b
}

func get(t *testing.T, url string) (int, *goquery.Document) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, doc
}

func catalogStub(n int) *jikanStub {
	stub := &jikanStub{}
	for i := 1; i <= n; i++ {
		stub.catalog = append(stub.catalog, ghibliEntry(i, "Film"+string(rune('A'+i-1)), 8.0))
	}
	return stub
}

func TestIndexLoadsCatalog(t *testing.T) {
	srv, b := newTestServer(t, catalogStub(8))

	status, doc := get(t, srv.URL+"/")

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, b.Loaded())
	assert.Equal(t, 6, doc.Find("#results .movie-card").Length())
	assert.Equal(t, "Studio Ghibli Films", doc.Find("title").Text())

	// second visit uses the loaded catalog
	_, doc = get(t, srv.URL+"/")
	assert.Equal(t, 6, doc.Find("#results .movie-card").Length())
}

func TestIndexLoadFailure(t *testing.T) {
	stub := catalogStub(3)
	stub.catalogFail.Store(true)
	srv, b := newTestServer(t, stub)

	_, doc := get(t, srv.URL+"/")
	assert.False(t, b.Loaded())
	assert.Equal(t, "Failed to load movies. Please try again later.", doc.Find(".error-message p").Text())

	stub.catalogFail.Store(false)
	_, doc = get(t, srv.URL+"/")
	assert.Equal(t, 3, doc.Find(".movie-card").Length())
}

func TestSearchEndpoint(t *testing.T) {
	stub := catalogStub(2)
	stub.results = []anime{
		ghibliEntry(199, "Spirited Away", 8.77),
		{"mal_id": 5, "title": "Not Ghibli", "studios": []anime{{"name": "Madhouse"}}},
	}
	srv, _ := newTestServer(t, stub)

	tests := []struct {
		name    string
		query   string
		status  int
		message string
		cards   int
	}{
		{name: "match", query: "Spirited Away", status: http.StatusOK, cards: 1},
		{name: "empty", query: "   ", status: http.StatusBadRequest, message: "Please enter a movie title"},
		{
			name:    "unknown title",
			query:   "Batman",
			status:  http.StatusBadRequest,
			message: `"Batman" is not a valid Studio Ghibli film. Try: "Spirited Away", "Totoro", etc.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, doc := get(t, srv.URL+"/results/search?q="+strings.ReplaceAll(tt.query, " ", "+"))

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.cards, doc.Find(".movie-card").Length())
			if tt.message != "" {
				assert.Equal(t, tt.message, doc.Find(".error-message p").Text())
			}
		})
	}
}

func TestSearchEndpointFailures(t *testing.T) {
	stub := catalogStub(1)
	stub.results = []anime{{"mal_id": 5, "title": "Totoro lookalike", "studios": []anime{{"name": "Madhouse"}}}}
	srv, _ := newTestServer(t, stub)

	status, doc := get(t, srv.URL+"/results/search?q=Totoro")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, `No Ghibli movies found for "Totoro". Try an exact title match.`, doc.Find(".error-message p").Text())

	stub.searchFail.Store(true)
	status, doc = get(t, srv.URL+"/results/search?q=Totoro")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Search failed: API error: 503", doc.Find(".error-message p").Text())
}

func TestViewAllEndpoint(t *testing.T) {
	srv, b := newTestServer(t, catalogStub(9))
	require.NoError(t, b.Load(context.Background(), render.NewRegion()))

	status, doc := get(t, srv.URL+"/results/all")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 9, doc.Find(".movie-card").Length())
}

func TestViewAllEmptyCatalog(t *testing.T) {
	srv, _ := newTestServer(t, catalogStub(0))

	_, doc := get(t, srv.URL+"/results/all")

	assert.Zero(t, doc.Find(".movie-card").Length())
	assert.Equal(t, 1, doc.Find(".empty-state").Length())
}

func TestDetailsEndpoint(t *testing.T) {
	srv, b := newTestServer(t, catalogStub(2))
	require.NoError(t, b.Load(context.Background(), render.NewRegion()))

	status, doc := get(t, srv.URL+"/movies/2")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "FilmB", doc.Find(".modal-title").Text())
	assert.Equal(t, strings.Repeat("s", 200), doc.Find(".description").Text())
	assert.Equal(t, "80%", doc.Find(".score").Text())

	resp, err := http.Get(srv.URL + "/movies/404")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/movies/abc")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	srv, b := newTestServer(t, catalogStub(4))
	require.NoError(t, b.Load(context.Background(), render.NewRegion()))

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
		Loaded bool   `json:"loaded"`
		Movies int    `json:"movies"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.Loaded)
	assert.Equal(t, 4, body.Movies)
}

func TestSearchStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, searchStatus(nil))
	assert.Equal(t, http.StatusBadRequest, searchStatus(browser.ErrEmptyInput))
	assert.Equal(t, http.StatusBadRequest, searchStatus(&browser.UnrecognizedTitleError{Term: "x"}))
	assert.Equal(t, http.StatusNotFound, searchStatus(&browser.NoResultsError{Term: "x"}))
	assert.Equal(t, http.StatusBadGateway, searchStatus(&browser.SearchError{Term: "x", Err: &jikan.APIError{StatusCode: 500}}))
}
