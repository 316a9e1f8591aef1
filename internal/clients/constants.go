package clients

import "time"

const (
	REDDIT_SITE_ROOT         = "https://www.reddit.com"
	DEFAULT_REQUEST_INTERVAL = 1 * time.Second
	LOCK_TTL                 = 10 * time.Minute
)
