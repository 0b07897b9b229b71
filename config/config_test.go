package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `
video_url: https://www.tiktok.com/@shop/video/7402587657584315653
gemini_api_key: test-key
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LedgerPath != "./replied_comments.json" {
		t.Errorf("LedgerPath = %q", cfg.LedgerPath)
	}
	if cfg.Cooldown() != 60*time.Second {
		t.Errorf("Cooldown = %v", cfg.Cooldown())
	}
	min, max := cfg.ReplyDelay()
	if min != 2*time.Second || max != 6*time.Second {
		t.Errorf("ReplyDelay = (%v, %v)", min, max)
	}
	if cfg.CommentWait() != 20*time.Second {
		t.Errorf("CommentWait = %v", cfg.CommentWait())
	}
	if cfg.GeminiModel == "" {
		t.Error("GeminiModel default not applied")
	}
	if cfg.Timezone != "Asia/Jakarta" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.Selectors.CommentItem == "" {
		t.Error("selector defaults not applied")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
ledger_path: /var/lib/bot/replied.db
cooldown_secs: 120
summary_time: "08:30"
timezone: UTC
selectors:
  comment_item: '//div[@data-e2e="comment-item"]'
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LedgerPath != "/var/lib/bot/replied.db" {
		t.Errorf("LedgerPath = %q", cfg.LedgerPath)
	}
	if cfg.CooldownSecs != 120 {
		t.Errorf("CooldownSecs = %d", cfg.CooldownSecs)
	}
	if cfg.SummaryTime != "08:30" {
		t.Errorf("SummaryTime = %q", cfg.SummaryTime)
	}
	if cfg.Selectors.CommentItem != `//div[@data-e2e="comment-item"]` {
		t.Errorf("CommentItem selector = %q", cfg.Selectors.CommentItem)
	}
	// Unset selector fields keep their defaults.
	if cfg.Selectors.ReplyBox == "" {
		t.Error("ReplyBox selector default lost")
	}
}

func TestLoadMissingVideoURL(t *testing.T) {
	_, err := Load(writeConfig(t, `gemini_api_key: test-key`))
	if err == nil {
		t.Fatal("expected error for missing video_url")
	}
}

func TestLoadMissingGeminiKey(t *testing.T) {
	_, err := Load(writeConfig(t, `video_url: https://example.com/v/1`))
	if err == nil {
		t.Fatal("expected error for missing gemini_api_key")
	}
}

func TestLoadInvalidSummaryTime(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"summary_time: \"9am\"\n"))
	if err == nil {
		t.Fatal("expected error for invalid summary_time")
	}
}

func TestLoadInvalidDelayBounds(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"reply_delay_min_ms: 5000\nreply_delay_max_ms: 1000\n"))
	if err == nil {
		t.Fatal("expected error when max delay < min delay")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("REPLYBOT_LEDGER", "/tmp/other.json")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load(writeConfig(t, `video_url: https://example.com/v/1`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LedgerPath != "/tmp/other.json" {
		t.Errorf("LedgerPath = %q, env override not applied", cfg.LedgerPath)
	}
	if cfg.GeminiAPIKey != "env-key" {
		t.Errorf("GeminiAPIKey = %q, env override not applied", cfg.GeminiAPIKey)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("REPLYBOT_CONFIG", "")
	if got := GetConfigPath(); got != "./config.yaml" {
		t.Errorf("GetConfigPath = %q", got)
	}

	t.Setenv("REPLYBOT_CONFIG", "/etc/replybot/config.yaml")
	if got := GetConfigPath(); got != "/etc/replybot/config.yaml" {
		t.Errorf("GetConfigPath = %q", got)
	}
}
