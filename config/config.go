package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendSheets   = "sheets"
	BackendDynamoDB = "dynamodb"

	DefaultSheetName = "RedditLinks"
	DefaultUserAgent = "go:reddit-feed-to-gsheet:v1.0"
)

// Config is built once at startup and handed to every component.
type Config struct {
	ServiceAccountFile string
	SpreadsheetID      string
	SheetName          string

	SavedFeed   string
	UpvotedFeed string
	UserAgent   string

	FeedRequestInterval time.Duration
	Location            *time.Location

	SinkBackend   string
	DynamoDBTable string
	AWSRegion     string
	AWSEndpoint   string

	ValkeyAddr     string
	ValkeyPassword string
	ValkeyTLS      bool

	KafkaBroker string
	KafkaTopic  string

	Schedule       string
	StrictSinkRead bool
	LogLevel       slog.Level
}

func Load() (*Config, error) {
	cfg := &Config{
		ServiceAccountFile: getEnv("SERVICE_ACCOUNT_FILE", "credentials.json"),
		SpreadsheetID:      getEnv("SPREADSHEET_ID", ""),
		SheetName:          getEnv("SHEET_NAME", DefaultSheetName),
		SavedFeed:          getEnv("SAVED_FEED", ""),
		UpvotedFeed:        getEnv("UPVOTED_FEED", ""),
		UserAgent:          getEnv("USER_AGENT", DefaultUserAgent),
		SinkBackend:        strings.ToLower(getEnv("SINK_BACKEND", BackendSheets)),
		DynamoDBTable:      getEnv("DYNAMODB_TABLE", "FeedRows"),
		AWSRegion:          getEnv("AWS_REGION", "us-west-2"),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		ValkeyAddr:         getEnv("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword:     getEnv("VALKEY_PASSWORD", ""),
		ValkeyTLS:          getEnv("VALKEY_TLS", "") == "true",
		KafkaBroker:        getEnv("KAFKA_BROKER", ""),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "feed-sync.records"),
		Schedule:           getEnv("SYNC_SCHEDULE", ""),
	}

	interval, err := time.ParseDuration(getEnv("FEED_REQUEST_INTERVAL", "1s"))
	if err != nil {
		return nil, fmt.Errorf("[Config] invalid FEED_REQUEST_INTERVAL: %w", err)
	}
	cfg.FeedRequestInterval = interval

	cfg.Location = time.Local
	if tz := getEnv("SYNC_TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("[Config] invalid SYNC_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if v := getEnv("STRICT_SINK_READ", ""); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("[Config] invalid STRICT_SINK_READ: %w", err)
		}
		cfg.StrictSinkRead = strict
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("[Config] invalid LOG_LEVEL: %w", err)
	}

	switch cfg.SinkBackend {
	case BackendSheets:
		if cfg.SpreadsheetID == "" {
			return nil, fmt.Errorf("[Config] SPREADSHEET_ID is required for the %s backend", BackendSheets)
		}
	case BackendDynamoDB:
	default:
		return nil, fmt.Errorf("[Config] unknown SINK_BACKEND %q", cfg.SinkBackend)
	}

	return cfg, nil
}

// Range is the four column range the sink reads from and appends to.
func (c *Config) Range() string {
	return c.SheetName + "!A:D"
}

// HeaderRange is the first row of the sheet.
func (c *Config) HeaderRange() string {
	return c.SheetName + "!A1:D1"
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
