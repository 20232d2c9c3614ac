// Package market is the market-data collaborator: a Yahoo Finance JSON client
// that resolves NSE symbols into a domain.Quote. Ordinary fetch failures are
// reported on the Quote (ScrapedOK=false + Error), never as a returned error.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bullhorn/internal/domain"
)

// Doer abstracts the HTTP client for testability.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Scraper implements domain.MarketScraper against the Yahoo Finance
// quoteSummary and search endpoints.
type Scraper struct {
	baseURL       string
	searchBaseURL string
	userAgent     string
	client        Doer
	logger        *slog.Logger     // optional; nil uses slog.Default()
	now           func() time.Time // capture-time source, injectable in tests
}

var _ domain.MarketScraper = (*Scraper)(nil)

// Option configures a Scraper.
type Option func(*Scraper)

// WithClient replaces the HTTP client.
func WithClient(c Doer) Option {
	return func(s *Scraper) { s.client = c }
}

// WithLogger sets the logger used for partial failures (e.g. news).
func WithLogger(l *slog.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// WithClock replaces the capture-timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

// New creates a Scraper from config, filling in defaults for zero values.
func New(cfg domain.MarketConfig, opts ...Option) *Scraper {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	s := &Scraper{
		baseURL:       cfg.BaseURL,
		searchBaseURL: cfg.SearchBaseURL,
		userAgent:     cfg.UserAgent,
		client:        &http.Client{Timeout: timeout},
		now:           time.Now,
	}
	if s.baseURL == "" {
		s.baseURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"
	}
	if s.searchBaseURL == "" {
		s.searchBaseURL = "https://query1.finance.yahoo.com/v1/finance/search"
	}
	if s.userAgent == "" {
		s.userAgent = "Mozilla/5.0 (compatible; bullhorn/1.0)"
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// ScrapeOne implements domain.MarketScraper. The symbol is used as given;
// the ".NS" exchange suffix is appended for the upstream request when the
// symbol carries no suffix. A failed news fetch degrades the Quote (no news)
// instead of failing the whole call.
func (s *Scraper) ScrapeOne(ctx context.Context, symbol string, includeNews, includeFundamentals bool) (*domain.Quote, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("market: symbol must not be empty")
	}

	q := &domain.Quote{
		Symbol:    symbol,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}

	upstream := symbol
	if !strings.Contains(upstream, ".") {
		upstream += ".NS"
	}

	modules := []string{"price", "summaryDetail"}
	if includeFundamentals {
		modules = append(modules, "assetProfile", "defaultKeyStatistics", "financialData")
	}

	result, err := s.fetchQuoteSummary(ctx, upstream, modules)
	if err != nil {
		q.Error = err.Error()
		return q, nil
	}
	applyQuoteSummary(q, result)

	if includeNews {
		news, err := s.fetchNews(ctx, upstream)
		if err != nil {
			s.log().Warn("news fetch failed", "symbol", symbol, "error", err)
		} else {
			q.News = news
		}
	}

	q.ScrapedOK = true
	return q, nil
}

// =============================================================================
// quoteSummary
// =============================================================================

// yfValue is Yahoo's {"raw": n, "fmt": "..."} number wrapper. Only raw is
// consumed; an absent or null raw stays nil.
type yfValue struct {
	Raw *float64 `json:"raw"`
}

type yfIntValue struct {
	Raw *int `json:"raw"`
}

type quoteSummaryEnvelope struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	Price *struct {
		ShortName                  string  `json:"shortName"`
		LongName                   string  `json:"longName"`
		RegularMarketPrice         yfValue `json:"regularMarketPrice"`
		RegularMarketChange        yfValue `json:"regularMarketChange"`
		RegularMarketChangePercent yfValue `json:"regularMarketChangePercent"`
		RegularMarketDayLow        yfValue `json:"regularMarketDayLow"`
		RegularMarketDayHigh       yfValue `json:"regularMarketDayHigh"`
		RegularMarketPreviousClose yfValue `json:"regularMarketPreviousClose"`
		RegularMarketVolume        yfValue `json:"regularMarketVolume"`
		MarketCap                  yfValue `json:"marketCap"`
	} `json:"price"`
	SummaryDetail *struct {
		FiftyTwoWeekLow      yfValue `json:"fiftyTwoWeekLow"`
		FiftyTwoWeekHigh     yfValue `json:"fiftyTwoWeekHigh"`
		FiftyDayAverage      yfValue `json:"fiftyDayAverage"`
		TwoHundredDayAverage yfValue `json:"twoHundredDayAverage"`
		TrailingPE           yfValue `json:"trailingPE"`
		ForwardPE            yfValue `json:"forwardPE"`
		DividendYield        yfValue `json:"dividendYield"`
		Beta                 yfValue `json:"beta"`
	} `json:"summaryDetail"`
	AssetProfile *struct {
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
		LongBusinessSummary string `json:"longBusinessSummary"`
	} `json:"assetProfile"`
	DefaultKeyStatistics *struct {
		TrailingEps yfValue `json:"trailingEps"`
		BookValue   yfValue `json:"bookValue"`
		PriceToBook yfValue `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`
	FinancialData *struct {
		ReturnOnEquity          yfValue    `json:"returnOnEquity"`
		ProfitMargins           yfValue    `json:"profitMargins"`
		DebtToEquity            yfValue    `json:"debtToEquity"`
		CurrentRatio            yfValue    `json:"currentRatio"`
		RecommendationKey       string     `json:"recommendationKey"`
		NumberOfAnalystOpinions yfIntValue `json:"numberOfAnalystOpinions"`
		TargetMeanPrice         yfValue    `json:"targetMeanPrice"`
		TargetHighPrice         yfValue    `json:"targetHighPrice"`
		TargetLowPrice          yfValue    `json:"targetLowPrice"`
	} `json:"financialData"`
}

func (s *Scraper) fetchQuoteSummary(ctx context.Context, symbol string, modules []string) (*quoteSummaryResult, error) {
	reqURL := fmt.Sprintf("%s/%s?modules=%s", s.baseURL, url.PathEscape(symbol), strings.Join(modules, ","))
	var env quoteSummaryEnvelope
	if err := s.getJSON(ctx, reqURL, &env); err != nil {
		return nil, err
	}
	if e := env.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("upstream error: %s", e.Description)
	}
	if len(env.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no data for symbol %s", symbol)
	}
	return &env.QuoteSummary.Result[0], nil
}

func applyQuoteSummary(q *domain.Quote, r *quoteSummaryResult) {
	if p := r.Price; p != nil {
		q.CompanyName = p.LongName
		if q.CompanyName == "" {
			q.CompanyName = p.ShortName
		}
		q.Price = p.RegularMarketPrice.Raw
		q.Change = p.RegularMarketChange.Raw
		q.ChangePct = scale(p.RegularMarketChangePercent.Raw, 100) // upstream sends a fraction
		q.DayLow = p.RegularMarketDayLow.Raw
		q.DayHigh = p.RegularMarketDayHigh.Raw
		q.PrevClose = p.RegularMarketPreviousClose.Raw
		if v := p.RegularMarketVolume.Raw; v != nil {
			vol := int64(*v)
			q.Volume = &vol
		}
		q.MarketCap = p.MarketCap.Raw
	}
	if d := r.SummaryDetail; d != nil {
		q.Week52Low = d.FiftyTwoWeekLow.Raw
		q.Week52High = d.FiftyTwoWeekHigh.Raw
		q.MA50 = d.FiftyDayAverage.Raw
		q.MA200 = d.TwoHundredDayAverage.Raw
		q.PERatio = d.TrailingPE.Raw
		q.ForwardPE = d.ForwardPE.Raw
		q.DividendYield = d.DividendYield.Raw
		q.Beta = d.Beta.Raw
	}
	if a := r.AssetProfile; a != nil {
		q.Sector = a.Sector
		q.Industry = a.Industry
		q.Description = a.LongBusinessSummary
	}
	if k := r.DefaultKeyStatistics; k != nil {
		q.EPS = k.TrailingEps.Raw
		q.BookValue = k.BookValue.Raw
		q.PriceToBook = k.PriceToBook.Raw
	}
	if f := r.FinancialData; f != nil {
		q.ROE = f.ReturnOnEquity.Raw
		q.ProfitMargin = f.ProfitMargins.Raw
		q.DebtToEquity = f.DebtToEquity.Raw
		q.CurrentRatio = f.CurrentRatio.Raw
		q.Recommendation = f.RecommendationKey
		q.AnalystCount = f.NumberOfAnalystOpinions.Raw
		q.TargetMeanPrice = f.TargetMeanPrice.Raw
		q.TargetHighPrice = f.TargetHighPrice.Raw
		q.TargetLowPrice = f.TargetLowPrice.Raw
	}
}

func scale(p *float64, factor float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p * factor
	return &v
}

// =============================================================================
// news (search endpoint)
// =============================================================================

type searchEnvelope struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

func (s *Scraper) fetchNews(ctx context.Context, symbol string) ([]domain.NewsItem, error) {
	reqURL := fmt.Sprintf("%s?q=%s&newsCount=5&quotesCount=0", s.searchBaseURL, url.QueryEscape(symbol))
	var env searchEnvelope
	if err := s.getJSON(ctx, reqURL, &env); err != nil {
		return nil, err
	}
	items := make([]domain.NewsItem, 0, len(env.News))
	for _, n := range env.News {
		item := domain.NewsItem{
			Title:     n.Title,
			Publisher: n.Publisher,
			Link:      n.Link,
		}
		if n.ProviderPublishTime > 0 {
			item.PublishedAt = time.Unix(n.ProviderPublishTime, 0).UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}
	return items, nil
}

// =============================================================================
// transport
// =============================================================================

func (s *Scraper) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("symbol not found")
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("rate limited by upstream")
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("upstream returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
