package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public Jikan v4 endpoint
	DefaultBaseURL = "https://api.jikan.moe/v4"
	// StudioGhibliProducerID selects Studio Ghibli's catalog
	StudioGhibliProducerID = 21
	// DefaultUserAgent is sent unless overridden with WithUserAgent
	DefaultUserAgent = "ghiblidex"
)

// Client represents a Jikan API client bound to a single producer
type Client struct {
	baseURL    string
	producerID int
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Jikan client
func NewClient(baseURL string, producerID int, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: jikan URL is required", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid jikan URL %q: %v", ErrInvalidConfig, baseURL, err)
	}
	if producerID <= 0 {
		return nil, fmt.Errorf("%w: producer ID must be positive", ErrInvalidConfig)
	}

	client := &Client{
		baseURL:    baseURL,
		producerID: producerID,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// ProducerID returns the producer the client is scoped to
func (c *Client) ProducerID() int {
	return c.producerID
}

// ProducerCatalog retrieves the first page of the producer's catalog
func (c *Client) ProducerCatalog(ctx context.Context) ([]Anime, error) {
	params := url.Values{}
	params.Set("producer", strconv.Itoa(c.producerID))

	entries, err := c.listAnime(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get producer catalog: %w", err)
	}

	c.logger.Debug().
		Int("producer", c.producerID).
		Int("count", len(entries)).
		Msg("Retrieved producer catalog from Jikan")

	return entries, nil
}

// Search retrieves anime matching term within the producer's catalog. Matching
// semantics are the API's own.
func (c *Client) Search(ctx context.Context, term string) ([]Anime, error) {
	params := url.Values{}
	params.Set("q", term)
	params.Set("producer", strconv.Itoa(c.producerID))

	entries, err := c.listAnime(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", term, err)
	}

	c.logger.Debug().
		Str("term", term).
		Int("count", len(entries)).
		Msg("Retrieved search results from Jikan")

	return entries, nil
}

// TestConnection checks that the API answers for the configured producer
func (c *Client) TestConnection(ctx context.Context) error {
	params := url.Values{}
	params.Set("producer", strconv.Itoa(c.producerID))
	params.Set("limit", "1")

	_, err := c.doRequest(ctx, http.MethodGet, "/anime", params)
	return err
}

func (c *Client) listAnime(ctx context.Context, params url.Values) ([]Anime, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/anime", params)
	if err != nil {
		return nil, err
	}

	var response AnimeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return response.Data, nil
}

// doRequest performs an HTTP request and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Msg("Making Jikan API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: requestURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	return body, nil
}
