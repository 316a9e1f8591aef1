package processing

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/spacesedan/feedsheet/internal/clients"
	"github.com/spacesedan/feedsheet/internal/models"
)

const (
	defaultTitle = "No Title"
	// what the link reads when an item has no permalink
	missingPermalink = "None"
)

type ListingFetcher interface {
	FetchListing(ctx context.Context, feedURL string) (*models.RedditAPIResponse, error)
}

// FeedSource pairs a feed URL with the category its items are filed under.
type FeedSource struct {
	URL      string
	Category models.Category
}

// FetchFeed fetches one listing and normalizes it. Errors wrap
// models.ErrFetch and come with no records.
func FetchFeed(ctx context.Context, fetcher ListingFetcher, source FeedSource, loc *time.Location) ([]models.Record, error) {
	listing, err := fetcher.FetchListing(ctx, source.URL)
	if err != nil {
		return nil, err
	}

	records := NormalizeListing(listing, source.Category, loc)
	slog.Info("[FetchFeed] Fetched feed",
		slog.String("category", string(source.Category)),
		slog.Int("items", len(records)))
	return records, nil
}

func NormalizeListing(listing *models.RedditAPIResponse, category models.Category, loc *time.Location) []models.Record {
	if loc == nil {
		loc = time.Local
	}

	records := make([]models.Record, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data

		var created float64
		if post.CreatedUTC != nil {
			created = *post.CreatedUTC
		}

		title := defaultTitle
		if post.Title != nil {
			title = *post.Title
		}

		permalink := missingPermalink
		if post.Permalink != nil {
			permalink = *post.Permalink
		}

		records = append(records, models.Record{
			Timestamp: time.Unix(int64(math.Floor(created)), 0).In(loc).Format(models.TimestampLayout),
			Title:     title,
			Link:      clients.REDDIT_SITE_ROOT + permalink,
			Category:  category,
		})
	}
	return records
}
