package browser

import (
	"errors"
	"fmt"

	"github.com/s0up4200/ghiblidex/jikan"
)

var (
	// ErrEmptyInput indicates a blank search
	ErrEmptyInput = errors.New("empty search input")
	// ErrMovieNotFound indicates a details lookup for an id missing from the full catalog
	ErrMovieNotFound = errors.New("movie not found in catalog")
)

type (
	// UnrecognizedTitleError indicates the term matched none of the known titles
	UnrecognizedTitleError struct {
		Term string
	}

	// NoResultsError indicates the API answered but nothing passed the studio filter
	NoResultsError struct {
		Term     string
		Returned int
	}

	// SearchError wraps a failed outbound search (transport, status or cancellation)
	SearchError struct {
		Term string
		Err  error
	}

	// LoadError wraps a failed initial catalog load
	LoadError struct {
		Err error
	}
)

func (e *UnrecognizedTitleError) Error() string {
	return fmt.Sprintf("%q is not a known Studio Ghibli title", e.Term)
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("no studio match for %q among %d results", e.Term, e.Returned)
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search for %q failed: %v", e.Term, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog load failed: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// UserMessage converts an operation error into the text shown in the results region
func UserMessage(err error) string {
	var (
		unrecognized *UnrecognizedTitleError
		noResults    *NoResultsError
		searchErr    *SearchError
		loadErr      *LoadError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "Please enter a movie title"
	case errors.As(err, &unrecognized):
		return fmt.Sprintf(`"%s" is not a valid Studio Ghibli film. Try: "Spirited Away", "Totoro", etc.`, unrecognized.Term)
	case errors.As(err, &noResults):
		return fmt.Sprintf(`No Ghibli movies found for "%s". Try an exact title match.`, noResults.Term)
	case errors.As(err, &loadErr):
		return "Failed to load movies. Please try again later."
	case errors.As(err, &searchErr):
		return "Search failed: " + failureReason(searchErr.Err)
	default:
		return "Something went wrong. Please try again."
	}
}

func failureReason(err error) string {
	var apiErr *jikan.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("API error: %d", apiErr.StatusCode)
	}
	var transportErr *jikan.TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Err.Error()
	}
	return err.Error()
}
