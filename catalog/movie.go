package catalog

import (
	"math"
	"strconv"

	"github.com/s0up4200/ghiblidex/jikan"
)

const (
	// Unknown replaces a missing director, producer or release year
	Unknown = "Unknown"
	// NotAvailable replaces a missing score
	NotAvailable = "N/A"
	// NoDescription replaces a missing synopsis
	NoDescription = "No description available"
	// PlaceholderImageURL replaces a missing poster
	PlaceholderImageURL = "https://via.placeholder.com/300x400?text=No+Image"
)

// Movie is the display projection of one Jikan entry
type Movie struct {
	ID            int
	Title         string
	OriginalTitle string
	Director      string
	Producer      string
	// ReleaseYear is 0 when the API did not report one
	ReleaseYear int
	// Score is a percentage, meaningful only when HasScore is set
	Score       int
	HasScore    bool
	Description string
	ImageURL    string
}

// ReleaseYearLabel returns the release year or "Unknown"
func (m Movie) ReleaseYearLabel() string {
	if m.ReleaseYear == 0 {
		return Unknown
	}
	return strconv.Itoa(m.ReleaseYear)
}

// ScoreLabel returns the score as "87%" or "N/A"
func (m Movie) ScoreLabel() string {
	if !m.HasScore {
		return NotAvailable
	}
	return strconv.Itoa(m.Score) + "%"
}

// ShortDescription returns the description cut for card display
func (m Movie) ShortDescription() string {
	return Truncate(m.Description, DescriptionLimit)
}

// FromAnime converts a Jikan entry into a Movie, substituting fallbacks for every
// missing optional field.
func FromAnime(anime jikan.Anime) Movie {
	movie := Movie{
		ID:            anime.MalID,
		Title:         anime.Title,
		OriginalTitle: anime.Title,
		Director:      Unknown,
		Producer:      Unknown,
		ReleaseYear:   anime.Year,
		Description:   NoDescription,
		ImageURL:      PlaceholderImageURL,
	}

	if anime.TitleEnglish != "" {
		movie.Title = anime.TitleEnglish
	}
	if len(anime.Authors) > 0 && anime.Authors[0].Name != "" {
		movie.Director = anime.Authors[0].Name
	}
	if len(anime.Studios) > 0 && anime.Studios[0].Name != "" {
		movie.Producer = anime.Studios[0].Name
	}
	if anime.Score != 0 {
		movie.Score = ScorePercent(anime.Score)
		movie.HasScore = true
	}
	if anime.Synopsis != "" {
		movie.Description = anime.Synopsis
	}
	if url := anime.Images.JPG.LargeImageURL; url != "" {
		movie.ImageURL = url
	}

	return movie
}

// FromAnimeList converts entries one by one, preserving order and duplicates
func FromAnimeList(entries []jikan.Anime) []Movie {
	movies := make([]Movie, 0, len(entries))
	for _, anime := range entries {
		movies = append(movies, FromAnime(anime))
	}
	return movies
}

// ScorePercent maps a 0-10 score to a rounded percentage, e.g. 8.67 -> 87
func ScorePercent(score float64) int {
	return int(math.Round(score * 10))
}

// FindByID returns the first movie with the given id
func FindByID(movies []Movie, id int) (Movie, bool) {
	for _, movie := range movies {
		if movie.ID == id {
			return movie, true
		}
	}
	return Movie{}, false
}
