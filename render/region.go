package render

import (
	"slices"
	"sync"

	"github.com/s0up4200/ghiblidex/catalog"
)

// State is the presentation state of the results region
type State int

const (
	// StateIdle means nothing has been shown yet, or a loading state was cleared
	StateIdle State = iota
	// StateLoading shows the spinner
	StateLoading
	// StateError shows a message
	StateError
	// StateContent shows cards, or the empty state when there are no movies
	StateContent
)

// String returns the name used by the templates
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateContent:
		return "content"
	default:
		return "idle"
	}
}

// Region records the signals of one browser operation. Error and content replace
// the region wholesale; HideLoading only clears a loading state. It implements
// browser.Presenter.
type Region struct {
	mu      sync.Mutex
	state   State
	message string
	movies  []catalog.Movie
	details *catalog.Movie
}

// NewRegion creates an idle region
func NewRegion() *Region {
	return &Region{}
}

func (r *Region) ShowLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateLoading
	r.message = ""
	r.movies = nil
}

func (r *Region) HideLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateLoading {
		r.state = StateIdle
	}
}

func (r *Region) ShowError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateError
	r.message = message
	r.movies = nil
}

func (r *Region) ShowMovies(movies []catalog.Movie) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateContent
	r.message = ""
	r.movies = slices.Clone(movies)
}

func (r *Region) ShowDetails(movie catalog.Movie) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.details = &movie
}

// CloseDetails hides the overlay
func (r *Region) CloseDetails() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.details = nil
}

// State returns the current state
func (r *Region) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Message returns the error message, if any
func (r *Region) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message
}

// Movies returns the displayed movies
func (r *Region) Movies() []catalog.Movie {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.movies)
}

// Details returns the movie shown in the overlay
func (r *Region) Details() (catalog.Movie, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.details == nil {
		return catalog.Movie{}, false
	}
	return *r.details, true
}
