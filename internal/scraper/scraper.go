// Package scraper fetches product web pages and extracts their readable text
// for the classification pipeline.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"
)

const maxRedirects = 5

// Result holds the outcome of fetching and extracting a page.
// RawHTML is the full fetched document; Text is the readable content.
type Result struct {
	RawHTML string
	Text    string
}

// Scraper fetches pages over HTTP and extracts their main content.
type Scraper struct {
	client    *http.Client
	converter *md.Converter
	userAgent string
	maxBytes  int64
	logger    *slog.Logger
}

// New creates a Scraper from the given configuration.
func New(cfg *Config, logger *slog.Logger) *Scraper {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &Scraper{
		client: &http.Client{
			Timeout: cfg.TimeoutDuration(),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (max %d)", maxRedirects)
				}
				return nil
			},
		},
		converter: converter,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		logger:    logger.With("system", "scraper"),
	}
}

// FetchAndExtract retrieves the page at pageURL and extracts its readable
// text. Extraction prefers readability article parsing and falls back to a
// whole-document markdown rendering for pages without article structure.
func (s *Scraper) FetchAndExtract(ctx context.Context, pageURL string) (*Result, error) {
	raw, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, pageURL, err)
	}

	text := s.extract(raw, pageURL)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, pageURL)
	}

	return &Result{RawHTML: raw, Text: text}, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, s.maxBytes+1), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > s.maxBytes {
		return "", fmt.Errorf("content too large (exceeds %d bytes)", s.maxBytes)
	}

	return string(body), nil
}

func (s *Scraper) extract(raw, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		parsed = nil
	}

	article, err := readability.FromReader(strings.NewReader(raw), parsed)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return strings.TrimSpace(article.TextContent)
	}

	markdown, err := s.converter.ConvertString(raw)
	if err != nil {
		s.logger.Warn("markdown fallback failed", "url", pageURL, "error", err)
		return ""
	}

	return strings.TrimSpace(markdown)
}
