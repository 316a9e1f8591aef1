package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/feedsheet/internal/models"
	"golang.org/x/time/rate"
)

// RedditFeedClient fetches the private JSON listings Reddit exposes for a
// user's saved and upvoted items. Each call makes exactly one request.
type RedditFeedClient struct {
	Client    *http.Client
	UserAgent string
	limiter   *rate.Limiter
}

func NewRedditFeedClient(userAgent string, interval time.Duration) *RedditFeedClient {
	if interval <= 0 {
		interval = DEFAULT_REQUEST_INTERVAL
	}
	return &RedditFeedClient{
		Client:    &http.Client{},
		UserAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (rc *RedditFeedClient) FetchListing(ctx context.Context, feedURL string) (*models.RedditAPIResponse, error) {
	if feedURL == "" {
		return nil, fmt.Errorf("[RedditFeedClient] feed URL is not configured: %w", models.ErrFetch)
	}

	if err := rc.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("[RedditFeedClient] rate limiter wait: %w: %w", err, models.ErrFetch)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("[RedditFeedClient] failed to build request: %w: %w", err, models.ErrFetch)
	}
	req.Header.Set("User-Agent", rc.UserAgent)

	resp, err := rc.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[RedditFeedClient] request failed: %w: %w", err, models.ErrFetch)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("[RedditFeedClient] unexpected status %d: %w", resp.StatusCode, models.ErrFetch)
	}

	var listing models.RedditAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("[RedditFeedClient] failed to parse JSON response: %w: %w", err, models.ErrFetch)
	}

	slog.Debug("[RedditFeedClient] Fetched listing",
		slog.Int("children", len(listing.Data.Children)))
	return &listing, nil
}
