package browser

import "github.com/s0up4200/ghiblidex/catalog"

// Presenter receives the UI signals emitted by the Browser. The Browser never writes
// output itself, so the same controller drives the web page and the terminal.
type Presenter interface {
	// ShowLoading is always followed by a HideLoading for the same operation
	ShowLoading()
	HideLoading()
	// ShowError replaces the results region with a user-facing message
	ShowError(message string)
	// ShowMovies replaces the results region; an empty slice means the empty state
	ShowMovies(movies []catalog.Movie)
	// ShowDetails opens the detail overlay for one movie
	ShowDetails(movie catalog.Movie)
}
