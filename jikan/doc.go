// Package jikan provides a client for the public Jikan REST API (an unofficial
// MyAnimeList mirror).
//
// Only the anime listing endpoint is used: the catalog of a single producer and a
// free-text search scoped to that producer. The client performs no caching, retrying
// or rate limiting; callers that need spacing between requests enforce it themselves.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := jikan.NewClient(
//		jikan.DefaultBaseURL,
//		jikan.StudioGhibliProducerID,
//		logger,
//		jikan.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	entries, err := client.Search(ctx, "Totoro")
//
// # Error Handling
//
// Failures are reported as one of two types:
//
//   - TransportError: the request could not be sent or the body could not be read
//   - APIError: the API answered with a non-2xx status code
//
// APIError includes helpers for classification:
//
//	var apiErr *jikan.APIError
//	if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
//		// back off
//	}
package jikan
