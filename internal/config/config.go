package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	defaultProviderURL = "https://api.tennis-data.example.com"
	defaultSchedule    = "21600" // every six hours
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	apiKey := getEnv("PROVIDER_API_KEY", "")
	cfg := Config{
		DBName:   getEnv("DB_NAME", "tennis.db"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		Provider: ProviderConfig{
			BaseURL:   strings.TrimRight(getEnv("PROVIDER_BASE_URL", defaultProviderURL), "/"),
			APIKey:    apiKey,
			Timeout:   time.Duration(getInt("PROVIDER_TIMEOUT_SECONDS", 15)) * time.Second,
			Available: IsUsableCredential(apiKey),
		},
		Sync: SyncConfig{
			Schedule:      getEnv("SYNC_SCHEDULE", defaultSchedule),
			Tours:         getList("SYNC_TOURS", []string{"ATP", "WTA"}),
			Seasons:       getSeasons("SYNC_SEASONS"),
			OnStartup:     getBool("SYNC_ON_STARTUP", false),
			MaxRetries:    uint64(getInt("SYNC_MAX_RETRIES", 2)),
			RetryBackoff:  time.Duration(getInt("SYNC_RETRY_BACKOFF_MS", 500)) * time.Millisecond,
			NotifySuccess: getBool("SYNC_NOTIFY_SUCCESS", false),
		},
		Cache: CacheConfig{
			MaxEntries: getInt("CACHE_MAX_ENTRIES", 500),
			TTLSeconds: getInt("CACHE_TTL_SECONDS", 3600),
		},
		Slack: SlackConfig{
			Token:         getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnv("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		},
		ProjectID:   getEnv("GCP_PROJECT", ""),
		PubSubTopic: getEnv("PUBSUB_TOPIC", "tennis-data-synced"),
		PubSubPush: PubSubPushConfig{
			Audience:       getEnv("PUBSUB_PUSH_AUDIENCE", ""),
			ServiceAccount: getEnv("PUBSUB_PUSH_SERVICE_ACCOUNT", ""),
		},
		Inngest: InngestConfig{
			AppID:      getEnv("INNGEST_APP_ID", ""),
			SigningKey: getEnv("INNGEST_SIGNING_KEY", ""),
			EventKey:   getEnv("INNGEST_EVENT_KEY", ""),
			Dev:        getBool("INNGEST_DEV", false),
		},
	}
	if !cfg.Provider.Available {
		log.Warn("Provider API key is missing or a placeholder, background sync will be skipped")
	}
	return cfg
}

// placeholders are values copied from sample env files that must never be sent upstream.
var placeholders = []string{"changeme", "change-me", "your-api-key", "your_api_key", "your_api_key_here", "api-key", "todo", "none", "null"}

// IsUsableCredential reports whether key looks like a real credential.
func IsUsableCredential(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	lower := strings.ToLower(key)
	for _, p := range placeholders {
		if lower == p {
			return false
		}
	}
	if strings.HasPrefix(key, "<") && strings.HasSuffix(key, ">") {
		return false
	}
	if strings.Trim(lower, "x") == "" {
		return false
	}
	return true
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Warn("Invalid integer in environment, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn("Invalid boolean in environment, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// getSeasons parses a comma separated list of years. Defaults to the current season.
func getSeasons(key string) []int {
	current := []int{time.Now().Year()}
	raw := getEnv(key, "")
	if raw == "" {
		return current
	}
	var seasons []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil || year < 1877 {
			log.Warn("Ignoring invalid season", "key", key, "value", part)
			continue
		}
		seasons = append(seasons, year)
	}
	if len(seasons) == 0 {
		return current
	}
	return seasons
}
