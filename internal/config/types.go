package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName      string
	Port        string
	LogLevel    string
	Turso       TursoConfig
	Provider    ProviderConfig
	Sync        SyncConfig
	Cache       CacheConfig
	Slack       SlackConfig
	ProjectID   string
	PubSubTopic string
	PubSubPush  PubSubPushConfig
	Inngest     InngestConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// ProviderConfig describes the external sports-data API. Available is derived
// once at load time and never re-probed from the environment.
type ProviderConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	Available bool
}

type SyncConfig struct {
	// Schedule is either a number of seconds or a standard cron expression.
	Schedule      string
	Tours         []string
	Seasons       []int
	OnStartup     bool
	MaxRetries    uint64
	RetryBackoff  time.Duration
	NotifySuccess bool
}

type CacheConfig struct {
	MaxEntries int
	TTLSeconds int
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// PubSubPushConfig pins the OIDC token Pub/Sub attaches to push requests.
// An empty Audience disables verification.
type PubSubPushConfig struct {
	Audience       string
	ServiceAccount string
}

type InngestConfig struct {
	AppID      string
	SigningKey string
	EventKey   string
	Dev        bool
}
