// Package config loads the bot configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"tiktok-reply-bot/tiktok"
)

// Config holds all application configuration.
type Config struct {
	VideoURL   string `yaml:"video_url"`
	LedgerPath string `yaml:"ledger_path"`
	CookiePath string `yaml:"cookie_path"`

	// ShowBrowser runs the browser with a visible window; headless
	// otherwise.
	ShowBrowser bool `yaml:"show_browser"`

	CooldownSecs    int `yaml:"cooldown_secs"`
	ReplyDelayMinMs int `yaml:"reply_delay_min_ms"`
	ReplyDelayMaxMs int `yaml:"reply_delay_max_ms"`
	CommentWaitSecs int `yaml:"comment_wait_secs"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
	SummaryTime    string `yaml:"summary_time"`
	Timezone       string `yaml:"timezone"`

	LogLevel  string           `yaml:"log_level"`
	Selectors tiktok.Selectors `yaml:"selectors"`
}

// summaryTimeRegex validates HH:MM format with proper ranges.
var summaryTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// GetConfigPath returns the config file path from environment or default.
func GetConfigPath() string {
	if path := os.Getenv("REPLYBOT_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}

// Cooldown returns the cycle cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSecs) * time.Second
}

// ReplyDelay returns the pacing delay bounds.
func (c *Config) ReplyDelay() (min, max time.Duration) {
	return time.Duration(c.ReplyDelayMinMs) * time.Millisecond,
		time.Duration(c.ReplyDelayMaxMs) * time.Millisecond
}

// CommentWait returns the comment-section wait timeout.
func (c *Config) CommentWait() time.Duration {
	return time.Duration(c.CommentWaitSecs) * time.Second
}

func applyDefaults(cfg *Config) {
	if cfg.LedgerPath == "" {
		cfg.LedgerPath = "./replied_comments.json"
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = "./tiktok_cookies.json"
	}
	if cfg.CooldownSecs == 0 {
		cfg.CooldownSecs = 60
	}
	if cfg.ReplyDelayMinMs == 0 {
		cfg.ReplyDelayMinMs = 2000
	}
	if cfg.ReplyDelayMaxMs == 0 {
		cfg.ReplyDelayMaxMs = 6000
	}
	if cfg.CommentWaitSecs == 0 {
		cfg.CommentWaitSecs = 20
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash-lite"
	}
	if cfg.SummaryTime == "" {
		cfg.SummaryTime = "21:00"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Jakarta"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	defaults := tiktok.DefaultSelectors()
	if cfg.Selectors.CommentButton == "" {
		cfg.Selectors.CommentButton = defaults.CommentButton
	}
	if cfg.Selectors.CommentItem == "" {
		cfg.Selectors.CommentItem = defaults.CommentItem
	}
	if cfg.Selectors.CommentText == "" {
		cfg.Selectors.CommentText = defaults.CommentText
	}
	if cfg.Selectors.CommentAuthor == "" {
		cfg.Selectors.CommentAuthor = defaults.CommentAuthor
	}
	if cfg.Selectors.ReplyButton == "" {
		cfg.Selectors.ReplyButton = defaults.ReplyButton
	}
	if cfg.Selectors.ReplyBox == "" {
		cfg.Selectors.ReplyBox = defaults.ReplyBox
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	if path := os.Getenv("REPLYBOT_LEDGER"); path != "" {
		cfg.LedgerPath = path
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}
}

func validate(cfg *Config) error {
	if cfg.VideoURL == "" {
		return fmt.Errorf("video_url is required")
	}
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("gemini_api_key is required")
	}
	if cfg.ReplyDelayMaxMs < cfg.ReplyDelayMinMs {
		return fmt.Errorf("reply_delay_max_ms must be >= reply_delay_min_ms")
	}
	if !summaryTimeRegex.MatchString(cfg.SummaryTime) {
		return fmt.Errorf("summary_time must be in HH:MM format (00:00-23:59), got %q", cfg.SummaryTime)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return nil
}
