package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"tiktok-reply-bot/classifier"
	"tiktok-reply-bot/config"
	"tiktok-reply-bot/engine"
	"tiktok-reply-bot/ledger"
	"tiktok-reply-bot/notify"
	"tiktok-reply-bot/scheduler"
	"tiktok-reply-bot/tiktok"
)

func main() {
	// Load configuration
	configPath := config.GetConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("starting TikTok reply bot", "video", cfg.VideoURL)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load the reply ledger
	led, err := ledger.Open(ctx, cfg.LedgerPath)
	if err != nil {
		slog.Error("failed to open reply ledger", "path", cfg.LedgerPath, "error", err)
		os.Exit(1)
	}
	defer led.Close()
	slog.Info("reply ledger loaded", "path", cfg.LedgerPath, "records", led.Len())

	// Initialize the classifier
	oracle := classifier.NewGeminiOracle(cfg.GeminiAPIKey, classifier.WithModel(cfg.GeminiModel))
	intent := classifier.New(oracle)

	// Launch the browser
	controlURL, err := launcher.New().Headless(!cfg.ShowBrowser).Launch()
	if err != nil {
		slog.Error("failed to launch browser", "error", err)
		os.Exit(1)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		slog.Error("failed to connect to browser", "error", err)
		os.Exit(1)
	}
	defer browser.Close()

	if err := tiktok.LoadCookies(browser, cfg.CookiePath); err != nil {
		slog.Warn("failed to load session cookies", "path", cfg.CookiePath, "error", err)
	}

	// The source is both the comment feed and the reply channel: one
	// browser session drives both sides of the page.
	source := tiktok.New(browser, cfg.VideoURL,
		tiktok.WithSelectors(cfg.Selectors),
		tiktok.WithWaitTimeout(cfg.CommentWait()),
	)
	defer source.Close()

	delayMin, delayMax := cfg.ReplyDelay()
	eng := engine.New(source, source, intent, led,
		engine.WithCooldown(cfg.Cooldown()),
		engine.WithReplyDelay(delayMin, delayMax),
	)

	// Optional operator notifications
	var notifier *notify.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifier, err = notify.New(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			slog.Error("failed to initialize notifier", "error", err)
			os.Exit(1)
		}

		sched, err := scheduler.New(cfg.Timezone)
		if err != nil {
			slog.Error("failed to initialize scheduler", "timezone", cfg.Timezone, "error", err)
			os.Exit(1)
		}
		if err := sched.Daily(cfg.SummaryTime, func() {
			if err := notifier.Summary(eng.Stats(), led.Len()); err != nil {
				slog.Warn("failed to send daily summary", "error", err)
			}
		}); err != nil {
			slog.Error("failed to schedule daily summary", "error", err)
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
		slog.Info("daily summary scheduled", "time", cfg.SummaryTime, "timezone", cfg.Timezone)
	}

	// Run the reply loop
	slog.Info("starting reply loop", "cooldown", cfg.Cooldown())
	if err := eng.Loop(ctx); err != nil {
		slog.Error("reply loop failed", "error", err)
		if notifier != nil {
			if alertErr := notifier.Alert(err.Error()); alertErr != nil {
				slog.Warn("failed to send alert", "error", alertErr)
			}
		}
		os.Exit(1)
	}

	// Persist the (possibly refreshed) session for the next run.
	if err := tiktok.SaveCookies(browser, cfg.CookiePath); err != nil {
		slog.Warn("failed to save session cookies", "error", err)
	}

	stats := eng.Stats()
	slog.Info("bot stopped", "cycles", stats.Cycles, "replied", stats.Replied)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
