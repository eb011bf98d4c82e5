package jikan

import (
	"context"
)

// API defines the Jikan operations the catalog browser depends on
type API interface {
	// ProducerCatalog retrieves every anime listed for the configured producer
	ProducerCatalog(ctx context.Context) ([]Anime, error)

	// Search retrieves anime matching term, scoped to the configured producer
	Search(ctx context.Context, term string) ([]Anime, error)
}
