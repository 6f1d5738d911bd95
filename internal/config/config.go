package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "STOCK_RADAR_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	geminiAPIKeyEnv   = "GEMINI_API_KEY"
	finnhubAPIKeyEnv  = "FINNHUB_API_KEY"
	telegramTokenEnv  = "TELEGRAM_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Scan          ScanConfig         `yaml:"scan"`
	Filters       FilterConfig       `yaml:"filters"`
	Keywords      KeywordConfig      `yaml:"keywords"`
	AI            AIConfig           `yaml:"ai"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sources       SourceConfig       `yaml:"sources"`
}

// LoggingConfig controls the console log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes the optional Postgres alert-history connection.
// An empty DSN disables history persistence and backtesting.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ScanConfig defines the cycle cadence and failure budget.
type ScanConfig struct {
	Interval          Duration `yaml:"interval"`
	SourceTimeout     Duration `yaml:"sourceTimeout"`
	MaxConsecutiveErr int      `yaml:"maxConsecutiveErrors"`
	ErrorPause        Duration `yaml:"errorPause"`
	AlertCooldown     Duration `yaml:"alertCooldown"`
	DispatchPause     Duration `yaml:"dispatchPause"`
}

// FilterConfig bounds which quotes are worth alerting on.
type FilterConfig struct {
	MinPrice         float64 `yaml:"minPrice"`
	MaxPrice         float64 `yaml:"maxPrice"`
	MinMarketCap     float64 `yaml:"minMarketCap"`
	MaxMarketCap     float64 `yaml:"maxMarketCap"`
	MinPriceChange   float64 `yaml:"minPriceChange"`
	RedditMinMention int     `yaml:"redditMinMentions"`
}

// KeywordConfig carries the news allow/deny lists.
type KeywordConfig struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// AIConfig defines how to contact the generative-analysis backend.
type AIConfig struct {
	Endpoint       string   `yaml:"endpoint"`
	APIKey         string   `yaml:"apiKey"`
	Models         []string `yaml:"models"`
	RequestTimeout Duration `yaml:"requestTimeout"`
	MinScore       float64  `yaml:"minScore"`
	LowBarScore    float64  `yaml:"lowBarScore"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SourceConfig groups per-source settings.
type SourceConfig struct {
	FinnhubAPIKey string   `yaml:"finnhubApiKey"`
	KRCooldown    Duration `yaml:"krCooldown"`
	AuditLogPath  string   `yaml:"auditLogPath"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.AI.APIKey = v
	}

	if v := os.Getenv(finnhubAPIKeyEnv); v != "" {
		c.Sources.FinnhubAPIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scan.Interval > 0 {
		base.Scan.Interval = override.Scan.Interval
	}
	if override.Scan.SourceTimeout > 0 {
		base.Scan.SourceTimeout = override.Scan.SourceTimeout
	}
	if override.Scan.MaxConsecutiveErr > 0 {
		base.Scan.MaxConsecutiveErr = override.Scan.MaxConsecutiveErr
	}
	if override.Scan.ErrorPause > 0 {
		base.Scan.ErrorPause = override.Scan.ErrorPause
	}
	if override.Scan.AlertCooldown > 0 {
		base.Scan.AlertCooldown = override.Scan.AlertCooldown
	}
	if override.Scan.DispatchPause > 0 {
		base.Scan.DispatchPause = override.Scan.DispatchPause
	}

	if override.Filters.MinPrice > 0 {
		base.Filters.MinPrice = override.Filters.MinPrice
	}
	if override.Filters.MaxPrice > 0 {
		base.Filters.MaxPrice = override.Filters.MaxPrice
	}
	if override.Filters.MinMarketCap > 0 {
		base.Filters.MinMarketCap = override.Filters.MinMarketCap
	}
	if override.Filters.MaxMarketCap > 0 {
		base.Filters.MaxMarketCap = override.Filters.MaxMarketCap
	}
	if override.Filters.MinPriceChange > 0 {
		base.Filters.MinPriceChange = override.Filters.MinPriceChange
	}
	if override.Filters.RedditMinMention > 0 {
		base.Filters.RedditMinMention = override.Filters.RedditMinMention
	}

	if len(override.Keywords.Positive) > 0 {
		base.Keywords.Positive = override.Keywords.Positive
	}
	if len(override.Keywords.Negative) > 0 {
		base.Keywords.Negative = override.Keywords.Negative
	}

	if override.AI.Endpoint != "" {
		base.AI.Endpoint = override.AI.Endpoint
	}
	if override.AI.APIKey != "" {
		base.AI.APIKey = override.AI.APIKey
	}
	if len(override.AI.Models) > 0 {
		base.AI.Models = override.AI.Models
	}
	if override.AI.RequestTimeout > 0 {
		base.AI.RequestTimeout = override.AI.RequestTimeout
	}
	if override.AI.MinScore > 0 {
		base.AI.MinScore = override.AI.MinScore
	}
	if override.AI.LowBarScore > 0 {
		base.AI.LowBarScore = override.AI.LowBarScore
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Sources.FinnhubAPIKey != "" {
		base.Sources.FinnhubAPIKey = override.Sources.FinnhubAPIKey
	}
	if override.Sources.KRCooldown > 0 {
		base.Sources.KRCooldown = override.Sources.KRCooldown
	}
	if override.Sources.AuditLogPath != "" {
		base.Sources.AuditLogPath = override.Sources.AuditLogPath
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{DSN: ""},
		Scan: ScanConfig{
			Interval:          Duration(30 * time.Second),
			SourceTimeout:     Duration(20 * time.Second),
			MaxConsecutiveErr: 10,
			ErrorPause:        Duration(time.Minute),
			AlertCooldown:     Duration(4 * time.Hour),
			DispatchPause:     Duration(5 * time.Second),
		},
		Filters: FilterConfig{
			MinPrice:         1.0,
			MaxPrice:         100.0,
			MinMarketCap:     50_000_000,
			MaxMarketCap:     5_000_000_000,
			MinPriceChange:   5.0,
			RedditMinMention: 10,
		},
		Keywords: KeywordConfig{
			Positive: []string{
				"fda approval", "fda approved", "clinical trial", "phase 3",
				"breakthrough", "cure", "treatment approved",
				"merger", "acquisition", "buyout", "takeover", "acquired by",
				"earnings beat", "revenue growth", "profit surge",
				"guidance raised", "record earnings",
				"partnership", "contract won", "deal signed", "agreement",
				"product launch", "new product", "patent approved",
				"investment", "funding round", "raised capital",
				"승인", "계약", "수주", "인수", "합병",
				"특허", "임상", "신약", "흑자 전환", "투자 유치",
			},
			Negative: []string{
				"rumor", "speculation", "could", "may", "might",
				"analyst says", "analyst thinks",
				"investigation", "lawsuit", "recall", "warning",
				"delay", "failed", "rejected", "declined",
				"루머", "추정", "적자", "소송", "하락",
			},
		},
		AI: AIConfig{
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
			Models: []string{
				"gemini-3-flash-preview",
				"gemini-2.5-flash",
				"gemma-3-27b-it",
			},
			RequestTimeout: Duration(30 * time.Second),
			MinScore:       7,
			LowBarScore:    4,
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Sources: SourceConfig{
			KRCooldown:   Duration(2 * time.Hour),
			AuditLogPath: "alert_history.jsonl",
		},
	}
}
