package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ads-activity-tracker/internal/model"
)

// Config holds application configuration loaded from environment variables.
// Constructed once at process start and passed into each component; nothing
// reads the environment after Load returns.
type Config struct {
	HTTPPort string
	AppMode  string

	GraphBaseURL      string
	GraphVersion      string
	MetaAccessToken   string
	PageLimit         int
	ActivityPageLimit int

	SpreadsheetID  string
	Accounts       []model.Account
	ActivityWindow time.Duration
	SyncInterval   time.Duration

	ActorWhitelist []string
	MailTo         []string
	MailFrom       string
	MailSubject    string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string

	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string

	BirthdaySheet string
	TaskSheet     string
	TaskMailTo    string

	AdsCustomerID     string
	AdsDeveloperToken string
	AdsReportSheet    string
	AdsQuery          string
}

const defaultAdsQuery = "SELECT campaign.name, metrics.cost_micros, metrics.conversions_value, metrics.conversions," +
	" metrics.cost_per_conversion, metrics.clicks, metrics.average_cpc, metrics.ctr, metrics.average_cpm," +
	" metrics.biddable_app_install_conversions, campaign.status" +
	" FROM campaign WHERE segments.date DURING LAST_7_DAYS ORDER BY campaign.name"

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort: getEnv("HTTP_PORT", ":8080"),
		AppMode:  strings.ToLower(getEnv("APP_MODE", "dev")),

		GraphBaseURL:      getEnv("GRAPH_BASE_URL", "https://graph.facebook.com"),
		GraphVersion:      getEnv("GRAPH_VERSION", "v23.0"),
		PageLimit:         parseIntEnv("GRAPH_PAGE_LIMIT", 500),
		ActivityPageLimit: parseIntEnv("GRAPH_ACTIVITY_PAGE_LIMIT", 100),

		ActivityWindow: parseDurationEnv("ACTIVITY_WINDOW", 12*time.Hour),

		ActorWhitelist: parseListEnv("ACTOR_WHITELIST"),
		MailTo:         parseListEnv("MAIL_TO"),
		MailFrom:       getEnv("MAIL_FROM", ""),
		MailSubject:    getEnv("MAIL_SUBJECT", "Meta Ads Activity Changes (Whitelisted Users)"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     parseIntEnv("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),

		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),
		ClickHouseUser:     getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		BirthdaySheet: getEnv("BIRTHDAY_SHEET", "Birthdays"),
		TaskSheet:     getEnv("TASK_SHEET", "Tasks"),
		TaskMailTo:    getEnv("TASK_MAIL_TO", ""),

		AdsCustomerID:     getEnv("ADS_CUSTOMER_ID", ""),
		AdsDeveloperToken: getEnv("ADS_DEVELOPER_TOKEN", ""),
		AdsReportSheet:    getEnv("ADS_REPORT_SHEET", "Trail - Google"),
		AdsQuery:          getEnv("ADS_QUERY", defaultAdsQuery),
	}

	cfg.MetaAccessToken = os.Getenv("META_ACCESS_TOKEN")

	cfg.SpreadsheetID = os.Getenv("SPREADSHEET_ID")
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is required")
	}

	accounts, err := parseAccounts(os.Getenv("ACCOUNTS"))
	if err != nil {
		return nil, err
	}
	cfg.Accounts = accounts

	cfg.SyncInterval = parseDurationEnv("SYNC_INTERVAL", cfg.ActivityWindow)

	return cfg, nil
}

// parseAccounts splits "act_1=Account 1;act_2=Account 2" into id/label pairs.
func parseAccounts(raw string) ([]model.Account, error) {
	var out []model.Account
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, label, found := strings.Cut(part, "=")
		if !found || strings.TrimSpace(id) == "" || strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("invalid ACCOUNTS entry %q, want id=label", part)
		}
		out = append(out, model.Account{ID: strings.TrimSpace(id), Label: strings.TrimSpace(label)})
	}
	return out, nil
}

func parseListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
