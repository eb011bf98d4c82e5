package jikan

import "strings"

// Anime is a single entry of the /anime listing. Nullable fields decode to their zero
// value, which callers treat as "absent".
type Anime struct {
	MalID         int        `json:"mal_id"`
	URL           string     `json:"url,omitempty"`
	Title         string     `json:"title"`
	TitleEnglish  string     `json:"title_english"`
	TitleJapanese string     `json:"title_japanese"`
	Type          string     `json:"type,omitempty"`
	Authors       []Resource `json:"authors,omitempty"`
	Studios       []Resource `json:"studios,omitempty"`
	Score         float64    `json:"score"`
	Year          int        `json:"year"`
	Synopsis      string     `json:"synopsis"`
	Images        Images     `json:"images"`
}

// HasStudio reports whether any studio name contains name. The match is case-sensitive.
func (a *Anime) HasStudio(name string) bool {
	for _, studio := range a.Studios {
		if strings.Contains(studio.Name, name) {
			return true
		}
	}
	return false
}

// Resource is a named MyAnimeList reference (studio, producer, author)
type Resource struct {
	MalID int    `json:"mal_id"`
	Type  string `json:"type,omitempty"`
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
}

// Images groups the poster variants by format
type Images struct {
	JPG  ImageSet `json:"jpg"`
	WebP ImageSet `json:"webp"`
}

// ImageSet holds the poster URLs of one format
type ImageSet struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// AnimeResponse is the envelope returned by the /anime endpoint
type AnimeResponse struct {
	Data       []Anime    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the page returned. Only the first page is ever requested.
type Pagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	CurrentPage     int  `json:"current_page"`
	Items           struct {
		Count   int `json:"count"`
		Total   int `json:"total"`
		PerPage int `json:"per_page"`
	} `json:"items"`
}
