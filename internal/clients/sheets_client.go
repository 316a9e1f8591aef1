package clients

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spacesedan/feedsheet/internal/models"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewSheetsService authenticates with a service account key file and
// returns the spreadsheet values API. Every failure wraps models.ErrAuth.
func NewSheetsService(ctx context.Context, credentialsFile string) (*sheets.SpreadsheetsValuesService, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("[SheetsClient] failed to read credentials %q: %w: %w", credentialsFile, err, models.ErrAuth)
	}

	jwtConf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("[SheetsClient] failed to parse service account key: %w: %w", err, models.ErrAuth)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("[SheetsClient] failed to create sheets service: %w: %w", err, models.ErrAuth)
	}

	slog.Info("[SheetsClient] Authenticated", slog.String("account", jwtConf.Email))
	return srv.Spreadsheets.Values, nil
}
