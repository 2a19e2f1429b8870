package googleauth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"ads-activity-tracker/internal/config"
)

// Scopes cover every Google surface the tracker touches: the spreadsheet,
// bounce scanning in Gmail, and the Ads report query.
var scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/adwords",
}

// NewClient builds an HTTP client that refreshes its access token from the
// configured long-lived refresh token.
func NewClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRefreshToken == "" {
		return nil, fmt.Errorf("google oauth credentials are not configured")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		RefreshToken: cfg.GoogleRefreshToken,
		TokenType:    "Bearer",
	}

	return oauth2.NewClient(ctx, oauthCfg.TokenSource(ctx, token)), nil
}
