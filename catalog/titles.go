package catalog

import (
	"slices"
	"strings"

	"github.com/s0up4200/ghiblidex/jikan"
)

// StudioName is the brand substring every search result must carry in its studio list
const StudioName = "Ghibli"

var knownTitles = []string{
	"Spirited Away", "My Neighbor Totoro", "Princess Mononoke",
	"Howl's Moving Castle", "Ponyo", "The Wind Rises",
	"Kiki's Delivery Service", "Castle in the Sky", "Grave of the Fireflies",
	"When Marnie Was There", "The Tale of the Princess Kaguya",
	"From Up on Poppy Hill", "Arrietty", "The Cat Returns",
	"Porco Rosso", "Only Yesterday", "The Red Turtle",
	"Earwig and the Witch", "Ocean Waves", "Whisper of the Heart",
}

// KnownTitles returns a copy of the allow-list in display order
func KnownTitles() []string {
	return slices.Clone(knownTitles)
}

// ExampleTitles returns the first n known titles
func ExampleTitles(n int) []string {
	n = min(max(n, 0), len(knownTitles))
	return slices.Clone(knownTitles[:n])
}

// IsKnownTitle reports whether term is a case-insensitive substring of any known
// title. It is a plausibility check only; the API may still return nothing.
func IsKnownTitle(term string) bool {
	needle := strings.ToLower(term)
	return slices.ContainsFunc(knownTitles, func(title string) bool {
		return strings.Contains(strings.ToLower(title), needle)
	})
}

// FilterByStudio keeps the entries that list a studio whose name contains studio
func FilterByStudio(entries []jikan.Anime, studio string) []jikan.Anime {
	kept := make([]jikan.Anime, 0, len(entries))
	for _, anime := range entries {
		if anime.HasStudio(studio) {
			kept = append(kept, anime)
		}
	}
	return kept
}
