package webscrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bullhorn/internal/domain"
)

type fakeFetcher struct {
	body []byte
	err  error

	calls  int
	gotURL string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls++
	f.gotURL = url
	return f.body, f.err
}

const articleHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Quarterly Results</title>
	<style>body { color: red; }</style>
	<script>trackVisitor();</script>
</head>
<body>
	<nav>Home | Markets | News</nav>
	<article>
		<h1>Quarterly Results Beat Estimates</h1>
		<p>The company reported a strong quarter with revenue growth of twelve
		percent year over year, driven by demand in its core segments.</p>
		<p>Management raised full-year guidance and announced an interim
		dividend for shareholders of record.</p>
	</article>
	<noscript>Please enable JavaScript.</noscript>
</body>
</html>`

// =============================================================================
// Scrape
// =============================================================================

func TestScrape_ShouldRejectNonHTTPSchemes(t *testing.T) {
	f := &fakeFetcher{}
	s := New(f)

	for _, bad := range []string{"ftp://example.com", "file:///etc/passwd", "example.com", "javascript:alert(1)"} {
		got, err := s.Scrape(context.Background(), bad)
		if err != nil {
			t.Fatalf("%s: scheme rejection must be text, got error: %v", bad, err)
		}
		if !strings.Contains(got, "must start with http:// or https://") {
			t.Errorf("%s: expected scheme error text, got %q", bad, got)
		}
	}
	if f.calls != 0 {
		t.Error("Fetcher must not be invoked for rejected schemes")
	}
}

func TestScrape_ShouldEmbedFetchErrorAsText(t *testing.T) {
	f := &fakeFetcher{err: errors.New("HTTP 503: 503 Service Unavailable")}
	s := New(f)

	got, err := s.Scrape(context.Background(), "https://example.com/down")
	if err != nil {
		t.Fatalf("Fetch failure must be text, got error: %v", err)
	}
	want := "Error fetching https://example.com/down: HTTP 503: 503 Service Unavailable"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestScrape_ShouldExtractArticleText(t *testing.T) {
	f := &fakeFetcher{body: []byte(articleHTML)}
	s := New(f)

	got, err := s.Scrape(context.Background(), "https://example.com/results")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(got, "revenue growth of twelve") {
		t.Errorf("Expected article body in output, got %q", got)
	}
	for _, leaked := range []string{"trackVisitor", "color: red", "Please enable JavaScript"} {
		if strings.Contains(got, leaked) {
			t.Errorf("Script/style/noscript content leaked into output: %q", leaked)
		}
	}
}

func TestScrape_ShouldReportEmptyPage(t *testing.T) {
	f := &fakeFetcher{body: []byte(`<html><head><script>x()</script></head><body>  </body></html>`)}
	s := New(f)

	got, err := s.Scrape(context.Background(), "https://example.com/empty")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(got, "Error extracting content from https://example.com/empty") {
		t.Errorf("Expected extraction error text, got %q", got)
	}
}

func TestScrape_ShouldFallBackToPlainTextForNonArticlePages(t *testing.T) {
	f := &fakeFetcher{body: []byte(`<html><body><div>NSE circular 42: trading holiday on Friday.</div></body></html>`)}
	s := New(f)

	got, err := s.Scrape(context.Background(), "https://example.com/circular")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(got, "trading holiday on Friday") {
		t.Errorf("Expected plain-text fallback to capture content, got %q", got)
	}
}

// =============================================================================
// HTTPFetcher
// =============================================================================

func TestHTTPFetcher_ShouldSendConfiguredUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(domain.ScrapeConfig{UserAgent: "test-scraper/2.0"})
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("Expected body, got %q", body)
	}
	if gotUA != "test-scraper/2.0" {
		t.Errorf("Expected configured user agent, got %q", gotUA)
	}
}

func TestHTTPFetcher_ShouldFailOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(domain.ScrapeConfig{})
	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "HTTP 403") {
		t.Errorf("Expected status in error, got %v", err)
	}
}

func TestHTTPFetcher_ShouldCapBodySize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(domain.ScrapeConfig{MaxBodyBytes: 100})
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(body) != 100 {
		t.Errorf("Expected body capped at 100 bytes, got %d", len(body))
	}
}
