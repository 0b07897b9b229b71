// Package engine runs the poll-process-reply loop: fetch the currently
// rendered comments, answer the ones not yet in the ledger, record the
// outcome, cool down, repeat.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"tiktok-reply-bot/classifier"
	"tiktok-reply-bot/normalize"
	"tiktok-reply-bot/responder"
)

// Comment is one rendered comment. Handle is the opaque element
// reference the reply channel needs to target this comment; the engine
// never inspects it.
type Comment struct {
	Author string
	Text   string
	Handle any
}

// CommentSource provides the rendered comment list for the monitored
// video. FetchComments returns a snapshot, not a stream: comments not
// yet rendered are picked up on later cycles.
type CommentSource interface {
	Open(ctx context.Context) error
	FetchComments(ctx context.Context) ([]Comment, error)
}

// ReplyChannel dispatches a reply to a specific comment.
type ReplyChannel interface {
	Reply(ctx context.Context, c Comment, text string) error
}

// IntentClassifier assigns a category (and sentiment, where applicable)
// to normalized comment text.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) (classifier.Result, error)
}

// ReplyLedger tracks which (author, comment) pairs were already
// answered.
type ReplyLedger interface {
	Contains(author, comment string) bool
	Append(ctx context.Context, author, comment string) error
}

// Stats are the engine's running counters.
type Stats struct {
	Cycles  int
	Fetched int
	Replied int
	Skipped int
}

// Engine owns the loop state and ties the components together.
type Engine struct {
	source     CommentSource
	replies    ReplyChannel
	classifier IntentClassifier
	ledger     ReplyLedger

	cooldown   time.Duration
	delayMin   time.Duration
	delayMax   time.Duration
	maxBackoff time.Duration

	mu    sync.Mutex
	stats Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithCooldown sets the sleep between cycles.
func WithCooldown(d time.Duration) Option {
	return func(e *Engine) {
		e.cooldown = d
	}
}

// WithReplyDelay sets the random pacing delay applied after each
// dispatched reply.
func WithReplyDelay(min, max time.Duration) Option {
	return func(e *Engine) {
		e.delayMin = min
		e.delayMax = max
	}
}

// WithMaxBackoff caps the retry backoff for transient cycle failures.
func WithMaxBackoff(d time.Duration) Option {
	return func(e *Engine) {
		e.maxBackoff = d
	}
}

// New creates an engine over the given collaborators.
func New(source CommentSource, replies ReplyChannel, intent IntentClassifier, ledger ReplyLedger, opts ...Option) *Engine {
	e := &Engine{
		source:     source,
		replies:    replies,
		classifier: intent,
		ledger:     ledger,
		cooldown:   60 * time.Second,
		delayMin:   2 * time.Second,
		delayMax:   6 * time.Second,
		maxBackoff: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Loop runs cycles until the context is cancelled or a non-transient
// error occurs. Transient failures (comment section not loading, stale
// page) are retried with capped exponential backoff.
func (e *Engine) Loop(ctx context.Context) error {
	backoff := e.initialBackoff()

	for {
		if ctx.Err() != nil {
			return nil
		}

		err := e.RunCycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !IsTransient(err) {
				return fmt.Errorf("cycle failed: %w", err)
			}

			slog.Warn("cycle failed, backing off", "backoff", backoff, "error", err)
			if !sleep(ctx, backoff) {
				return nil
			}
			backoff *= 2
			if backoff > e.maxBackoff {
				backoff = e.maxBackoff
			}
			continue
		}
		backoff = e.initialBackoff()

		if !sleep(ctx, e.cooldown) {
			return nil
		}
	}
}

// RunCycle performs one full pass: refresh the page, snapshot the
// comment list, and process every comment with isolated failure
// handling.
func (e *Engine) RunCycle(ctx context.Context) error {
	if err := e.source.Open(ctx); err != nil {
		return fmt.Errorf("open comment section: %w", err)
	}

	comments, err := e.source.FetchComments(ctx)
	if err != nil {
		return fmt.Errorf("fetch comments: %w", err)
	}

	e.mu.Lock()
	e.stats.Cycles++
	e.stats.Fetched += len(comments)
	e.mu.Unlock()

	slog.Info("processing comments", "count", len(comments))

	replied := 0
	for _, c := range comments {
		if ctx.Err() != nil {
			return nil
		}

		ok, err := e.processComment(ctx, c)
		if err != nil {
			slog.Warn("skipping comment", "author", c.Author, "error", err)
			e.countSkip()
			continue
		}
		if !ok {
			e.countSkip()
			continue
		}

		replied++
		e.mu.Lock()
		e.stats.Replied++
		e.mu.Unlock()

		// Pacing between replies, so the session does not look like a
		// machine hammering the reply box.
		if !sleep(ctx, e.replyDelay()) {
			return nil
		}
	}

	slog.Info("cycle complete", "comments", len(comments), "replied", replied)
	return nil
}

// processComment answers a single comment. It returns (false, nil) for
// clean skips (already answered, nothing to extract) and an error for
// skips worth reporting. Failed comments stay out of the ledger and are
// retried on a later cycle.
func (e *Engine) processComment(ctx context.Context, c Comment) (bool, error) {
	if c.Author == "" || c.Text == "" {
		return false, nil
	}

	text := normalize.Normalize(c.Text)
	if text == "" {
		return false, nil
	}

	if e.ledger.Contains(c.Author, text) {
		return false, nil
	}

	result, err := e.classifier.Classify(ctx, text)
	if err != nil {
		return false, fmt.Errorf("classify: %w", err)
	}

	reply := responder.Generate(result.Category, result.Sentiment, c.Author)

	if err := e.replies.Reply(ctx, c, reply); err != nil {
		return false, fmt.Errorf("dispatch reply: %w", err)
	}

	// Record only after a believed-successful dispatch. A persist
	// failure keeps the record in memory, so the worst case after a
	// crash is a single duplicate attempt, never an unrecorded success
	// within this process.
	if err := e.ledger.Append(ctx, c.Author, text); err != nil {
		slog.Warn("ledger persist failed", "author", c.Author, "error", err)
	}

	slog.Info("replied", "author", c.Author, "category", result.Category)
	return true, nil
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) countSkip() {
	e.mu.Lock()
	e.stats.Skipped++
	e.mu.Unlock()
}

func (e *Engine) initialBackoff() time.Duration {
	if e.maxBackoff < time.Second {
		return e.maxBackoff
	}
	return time.Second
}

func (e *Engine) replyDelay() time.Duration {
	if e.delayMax <= e.delayMin {
		return e.delayMin
	}
	return e.delayMin + time.Duration(rand.Int63n(int64(e.delayMax-e.delayMin)))
}

// sleep waits for d or until ctx is cancelled, reporting whether the
// full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
