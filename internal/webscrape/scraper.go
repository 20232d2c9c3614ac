// Package webscrape is the generic page-scraping collaborator: fetch a URL,
// strip scripts and styles, and extract the main article content as clean
// text an LLM can read. Fetch and extraction failures are embedded in the
// returned string as readable error text, so every call still yields a text
// payload for the host.
package webscrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"bullhorn/internal/domain"
)

// Fetcher abstracts HTTP GET requests for testability.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Scraper implements domain.WebScraper.
type Scraper struct {
	fetcher Fetcher
}

var _ domain.WebScraper = (*Scraper)(nil)

// New creates a Scraper with the given fetcher.
func New(fetcher Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher}
}

// Scrape fetches the page and extracts its readable content. The returned
// error is nil for ordinary failures; those come back as text.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (string, error) {
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		return fmt.Sprintf("Error: invalid URL %q: must start with http:// or https://", pageURL), nil
	}
	rawHTML, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return fmt.Sprintf("Error fetching %s: %v", pageURL, err), nil
	}
	content, err := extractContent(rawHTML, pageURL)
	if err != nil {
		return fmt.Sprintf("Error extracting content from %s: %v", pageURL, err), nil
	}
	return content, nil
}

// extractContent strips scripts/styles and extracts readable content, falling
// back to plain text when readability cannot identify an article.
func extractContent(rawHTML []byte, sourceURL string) (string, error) {
	cleaned, err := stripScriptsAndStyles(rawHTML)
	if err != nil {
		return "", fmt.Errorf("failed to clean HTML: %w", err)
	}

	if content, err := extractReadable(cleaned, sourceURL); err == nil && strings.TrimSpace(content) != "" {
		return strings.TrimSpace(content), nil
	}

	text, err := extractPlainText(cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no content found at URL")
	}
	return strings.TrimSpace(text), nil
}

// stripScriptsAndStyles removes script, style, and noscript tags using goquery.
func stripScriptsAndStyles(rawHTML []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript").Each(func(i int, sel *goquery.Selection) {
		sel.Remove()
	})
	return doc.Html()
}

// extractReadable extracts the main article text using go-readability.
func extractReadable(htmlContent, sourceURL string) (string, error) {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	article, err := readability.FromReader(strings.NewReader(htmlContent), parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}
	return article.TextContent, nil
}

// extractPlainText extracts all visible text from HTML using goquery.
func extractPlainText(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc.Text(), nil
}

// HTTPFetcher implements Fetcher using net/http.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// NewHTTPFetcher creates an HTTPFetcher from config, filling in defaults for
// zero values.
func NewHTTPFetcher(cfg domain.ScrapeConfig) *HTTPFetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 10 * 1024 * 1024
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "bullhorn/1.0 (Web Scraper)"
	}
	return &HTTPFetcher{
		client:       &http.Client{Timeout: timeout},
		userAgent:    ua,
		maxBodyBytes: maxBody,
	}
}

// Fetch retrieves the content at the given URL with the configured User-Agent.
func (f *HTTPFetcher) Fetch(ctx context.Context, fetchURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
