// Package tiktok drives a real browser session against a TikTok video
// page, implementing the engine's comment source and reply channel.
package tiktok

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"tiktok-reply-bot/engine"
)

// Selectors locate the pieces of the comment UI. They are configuration
// data: TikTok reshuffles its DOM often enough that these must be
// overridable without a rebuild.
type Selectors struct {
	CommentButton string `yaml:"comment_button"`
	CommentItem   string `yaml:"comment_item"`
	CommentText   string `yaml:"comment_text"`
	CommentAuthor string `yaml:"comment_author"`
	ReplyButton   string `yaml:"reply_button"`
	ReplyBox      string `yaml:"reply_box"`
}

// DefaultSelectors returns the selector set for the current TikTok web
// layout.
func DefaultSelectors() Selectors {
	return Selectors{
		CommentButton: `//div[@role='button' and contains(text(), 'Comment')]`,
		CommentItem:   `//div[@role="comment"]`,
		CommentText:   `.//p`,
		CommentAuthor: `.//a`,
		ReplyButton:   `.//button[contains(@class, "reply")]`,
		ReplyBox:      `//div[@role="textbox"]`,
	}
}

const (
	defaultWaitTimeout  = 20 * time.Second
	defaultReplyTimeout = 10 * time.Second
)

// Source is a rod-backed comment source and reply channel for a single
// video page. The underlying browser session must already be
// authenticated; see LoadCookies.
type Source struct {
	browser     *rod.Browser
	videoURL    string
	sel         Selectors
	waitTimeout time.Duration

	page *rod.Page
}

// Option configures a Source.
type Option func(*Source)

// WithSelectors overrides the default selector set.
func WithSelectors(sel Selectors) Option {
	return func(s *Source) {
		s.sel = sel
	}
}

// WithWaitTimeout bounds the wait for the comment section to appear.
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Source) {
		s.waitTimeout = d
	}
}

// New creates a source for the given video URL.
func New(browser *rod.Browser, videoURL string, opts ...Option) *Source {
	s := &Source{
		browser:     browser,
		videoURL:    videoURL,
		sel:         DefaultSelectors(),
		waitTimeout: defaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads (or reloads) the video page and waits for the comment
// section to become interactable. Failures here are transient: the page
// may simply not have rendered yet.
func (s *Source) Open(ctx context.Context) error {
	if s.page == nil {
		page, err := s.browser.Page(proto.TargetCreateTarget{URL: s.videoURL})
		if err != nil {
			return fmt.Errorf("open video page: %w", err)
		}
		s.page = page
	} else {
		if err := s.page.Context(ctx).Reload(); err != nil {
			return engine.Transient(fmt.Errorf("reload video page: %w", err))
		}
	}

	p := s.page.Context(ctx)
	if err := p.WaitLoad(); err != nil {
		return engine.Transient(fmt.Errorf("wait for page load: %w", err))
	}

	btn, err := p.Timeout(s.waitTimeout).ElementX(s.sel.CommentButton)
	if err != nil {
		return engine.Transient(fmt.Errorf("comment section not available: %w", err))
	}

	// Scroll to the bottom so the comment list is rendered before we
	// open it.
	if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return engine.Transient(fmt.Errorf("scroll page: %w", err))
	}

	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return engine.Transient(fmt.Errorf("open comment section: %w", err))
	}
	return nil
}

// FetchComments snapshots the currently rendered comment list. Comments
// whose author or text cannot be extracted are dropped here; later
// cycles will see them again once they render properly.
func (s *Source) FetchComments(ctx context.Context) ([]engine.Comment, error) {
	if s.page == nil {
		return nil, fmt.Errorf("page not opened")
	}
	p := s.page.Context(ctx)

	els, err := p.ElementsX(s.sel.CommentItem)
	if err != nil {
		return nil, engine.Transient(fmt.Errorf("enumerate comments: %w", err))
	}

	comments := make([]engine.Comment, 0, len(els))
	for _, el := range els {
		author, text, err := s.extract(el)
		if err != nil {
			slog.Warn("skipping unreadable comment element", "error", err)
			continue
		}
		comments = append(comments, engine.Comment{
			Author: author,
			Text:   text,
			Handle: el,
		})
	}
	return comments, nil
}

func (s *Source) extract(el *rod.Element) (author, text string, err error) {
	textEl, err := el.Timeout(time.Second).ElementX(s.sel.CommentText)
	if err != nil {
		return "", "", fmt.Errorf("comment text: %w", err)
	}
	text, err = textEl.Text()
	if err != nil {
		return "", "", fmt.Errorf("comment text: %w", err)
	}

	authorEl, err := el.Timeout(time.Second).ElementX(s.sel.CommentAuthor)
	if err != nil {
		return "", "", fmt.Errorf("comment author: %w", err)
	}
	author, err = authorEl.Text()
	if err != nil {
		return "", "", fmt.Errorf("comment author: %w", err)
	}

	return strings.TrimSpace(author), strings.TrimSpace(text), nil
}

// Reply opens the reply box under the target comment, types the text,
// and submits it with Enter. Any UI failure is transient: the comment
// stays unanswered and is retried on a later cycle.
func (s *Source) Reply(ctx context.Context, c engine.Comment, text string) error {
	el, ok := c.Handle.(*rod.Element)
	if !ok {
		return fmt.Errorf("comment handle is %T, not a page element", c.Handle)
	}

	if err := el.ScrollIntoView(); err != nil {
		return engine.Transient(fmt.Errorf("scroll to comment: %w", err))
	}

	replyBtn, err := el.Timeout(defaultReplyTimeout).ElementX(s.sel.ReplyButton)
	if err != nil {
		return engine.Transient(fmt.Errorf("find reply button: %w", err))
	}
	if err := replyBtn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return engine.Transient(fmt.Errorf("click reply button: %w", err))
	}

	box, err := s.page.Context(ctx).Timeout(defaultReplyTimeout).ElementX(s.sel.ReplyBox)
	if err != nil {
		return engine.Transient(fmt.Errorf("find reply box: %w", err))
	}
	if err := box.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return engine.Transient(fmt.Errorf("focus reply box: %w", err))
	}
	if err := box.Input(text); err != nil {
		return engine.Transient(fmt.Errorf("type reply: %w", err))
	}
	if err := box.Type(input.Enter); err != nil {
		return engine.Transient(fmt.Errorf("submit reply: %w", err))
	}
	return nil
}

// Close closes the page, leaving the browser to the caller.
func (s *Source) Close() error {
	if s.page == nil {
		return nil
	}
	return s.page.Close()
}
