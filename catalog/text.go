package catalog

// DescriptionLimit is the number of characters shown on a card
const DescriptionLimit = 150

// Ellipsis is appended to truncated descriptions
const Ellipsis = "..."

// Truncate cuts s to its first limit characters and appends an ellipsis. Strings that
// already fit are returned unchanged. Word boundaries are ignored.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + Ellipsis
}
