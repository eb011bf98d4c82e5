package render

import (
	"strings"

	"github.com/s0up4200/ghiblidex/catalog"
)

// EmptyStateExamples is how many known titles the empty state lists
const EmptyStateExamples = 5

// ResultsView is the template model of the results region
type ResultsView struct {
	State    string
	Message  string
	Cards    []CardView
	Examples string
}

// CardView is one movie card
type CardView struct {
	ID       int
	Title    string
	Director string
	Score    string
	Excerpt  string
	ImageURL string
}

// OverlayView is the detail overlay
type OverlayView struct {
	ID            int
	Title         string
	OriginalTitle string
	Director      string
	ReleaseYear   string
	Score         string
	Producer      string
	Description   string
	ImageURL      string
}

// PageView is the full page
type PageView struct {
	Title   string
	Query   string
	Results ResultsView
}

// NewResultsView snapshots a region into a template model
func NewResultsView(region *Region) ResultsView {
	view := ResultsView{
		State:    region.State().String(),
		Message:  region.Message(),
		Examples: strings.Join(catalog.ExampleTitles(EmptyStateExamples), ", "),
	}

	for _, movie := range region.Movies() {
		view.Cards = append(view.Cards, NewCardView(movie))
	}

	return view
}

// NewCardView projects a movie onto a card with a truncated description
func NewCardView(movie catalog.Movie) CardView {
	return CardView{
		ID:       movie.ID,
		Title:    movie.Title,
		Director: movie.Director,
		Score:    movie.ScoreLabel(),
		Excerpt:  movie.ShortDescription(),
		ImageURL: movie.ImageURL,
	}
}

// NewOverlayView projects a movie onto the overlay with the full description
func NewOverlayView(movie catalog.Movie) OverlayView {
	return OverlayView{
		ID:            movie.ID,
		Title:         movie.Title,
		OriginalTitle: movie.OriginalTitle,
		Director:      movie.Director,
		ReleaseYear:   movie.ReleaseYearLabel(),
		Score:         movie.ScoreLabel(),
		Producer:      movie.Producer,
		Description:   movie.Description,
		ImageURL:      movie.ImageURL,
	}
}
