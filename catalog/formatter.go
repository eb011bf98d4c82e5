package catalog

import (
	"fmt"
	"strings"
)

// Formatter renders movies for terminal output
type Formatter interface {
	FormatMovieList(movies []Movie, options FormatOptions) string
	FormatMovieDetails(movie Movie) string
	FormatEmptyState() string
}

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDescription bool
	ShowPoster      bool
}

// ConsoleFormatter provides console output formatting for movies
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatMovieList formats movies as a tree of cards
func (f *ConsoleFormatter) FormatMovieList(movies []Movie, options FormatOptions) string {
	if len(movies) == 0 {
		return f.FormatEmptyState()
	}

	var sb strings.Builder

	sb.WriteString("\nMovie")
	if len(movies) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(movies))

	for i, movie := range movies {
		isLast := i == len(movies)-1
		prefix := "├"
		indent := "│   "
		if isLast {
			prefix = "╰"
			indent = "    "
		}

		fmt.Fprintf(&sb, "%s── %s [#%d]\n", prefix, movie.Title, movie.ID)
		fmt.Fprintf(&sb, "%sDirector: %s | Score: %s\n", indent, movie.Director, movie.ScoreLabel())

		if options.ShowDescription {
			fmt.Fprintf(&sb, "%s%s\n", indent, movie.ShortDescription())
		}
		if options.ShowPoster {
			fmt.Fprintf(&sb, "%sPoster: %s\n", indent, movie.ImageURL)
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatMovieDetails formats every field of a movie, with the full description
func (f *ConsoleFormatter) FormatMovieDetails(movie Movie) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s\n", movie.Title)
	sb.WriteString(strings.Repeat("─", max(len([]rune(movie.Title)), 20)))
	sb.WriteString("\n")

	rows := [][2]string{
		{"Original Title", movie.OriginalTitle},
		{"Director", movie.Director},
		{"Release Year", movie.ReleaseYearLabel()},
		{"Score", movie.ScoreLabel()},
		{"Producer", movie.Producer},
		{"Poster", movie.ImageURL},
	}
	for _, row := range rows {
		fmt.Fprintf(&sb, "%-15s %s\n", row[0]+":", row[1])
	}

	fmt.Fprintf(&sb, "\nDescription:\n%s\n\n", movie.Description)
	return sb.String()
}

// FormatEmptyState formats the message shown when there is nothing to list
func (f *ConsoleFormatter) FormatEmptyState() string {
	return fmt.Sprintf("No movies found. Try a different search term.\nValid Ghibli films include: %s...\n",
		strings.Join(ExampleTitles(5), ", "))
}
