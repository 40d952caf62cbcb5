// Package capture turns a job posting URL or file into the cleaned text that
// variant generation consumes.
package capture

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jonathan/resume-variants/internal/fetch"
)

// ErrEmptyPosting is returned when no text could be extracted
var ErrEmptyPosting = errors.New("job posting has no text")

// Posting is a captured job description
type Posting struct {
	URL        string         `json:"url,omitempty"`
	Platform   fetch.Platform `json:"platform,omitempty"`
	Title      string         `json:"title,omitempty"`
	Text       string         `json:"text"`
	Hash       string         `json:"hash"`
	CapturedAt time.Time      `json:"captured_at"`
}

// Capturer extracts postings from pages
type Capturer struct {
	fetcher  fetch.Getter
	renderer fetch.Renderer
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Capturer
type Option func(*Capturer)

// WithFetcher replaces the HTTP fetcher
func WithFetcher(f fetch.Getter) Option {
	return func(c *Capturer) { c.fetcher = f }
}

// WithRenderer enables a headless-browser fallback for pages whose HTTP
// response holds too little text
func WithRenderer(r fetch.Renderer) Option {
	return func(c *Capturer) { c.renderer = r }
}

// WithClock overrides the capture timestamp source
func WithClock(now func() time.Time) Option {
	return func(c *Capturer) { c.now = now }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Capturer) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Capturer that fetches over plain HTTP and never renders
func New(opts ...Option) *Capturer {
	c := &Capturer{
		fetcher: fetch.New(nil),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromURL fetches urlStr, extracts the posting body using platform-specific
// selectors and cleans it
func (c *Capturer) FromURL(ctx context.Context, urlStr string) (*Posting, error) {
	platform := fetch.DetectPlatform(urlStr)
	logger := c.logger.With(slog.String("url", urlStr), slog.String("platform", string(platform)))

	result, err := c.fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job posting: %w", err)
	}

	html := result.HTML
	text, err := fetch.ExtractMainText(html, platform.ContentSelectors(), platform.NoiseSelectors()...)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job posting: %w", err)
	}
	logger.Debug("extracted posting text", slog.Int("chars", len(text)))

	if c.renderer != nil && (platform.NeedsBrowser() || fetch.ShouldUseBrowser(text)) {
		rendered, rerr := c.renderer.Render(ctx, urlStr)
		if rerr != nil {
			logger.Warn("browser rendering failed, keeping HTTP content", slog.Any("error", rerr))
		} else if rtext, xerr := fetch.ExtractMainText(rendered, platform.ContentSelectors(), platform.NoiseSelectors()...); xerr == nil && len(rtext) > len(text) {
			html, text = rendered, rtext
			logger.Debug("using rendered posting text", slog.Int("chars", len(text)))
		}
	}

	posting, err := c.newPosting(text)
	if err != nil {
		return nil, err
	}
	posting.URL = urlStr
	posting.Platform = platform
	posting.Title = fetch.Title(html)
	return posting, nil
}

// FromFile reads a plain-text posting from path
func (c *Capturer) FromFile(path string) (*Posting, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return c.newPosting(string(content))
}

// FromText wraps already-captured text, as sent by a browser extension
func (c *Capturer) FromText(text string) (*Posting, error) {
	return c.newPosting(text)
}

func (c *Capturer) newPosting(raw string) (*Posting, error) {
	text := CleanText(raw)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyPosting
	}
	sum := sha256.Sum256([]byte(text))
	return &Posting{
		Text:       text,
		Hash:       hex.EncodeToString(sum[:]),
		CapturedAt: c.now().UTC(),
	}, nil
}
