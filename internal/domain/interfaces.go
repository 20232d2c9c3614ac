package domain

import "context"

// MarketScraper is the market-data collaborator. Implementations must not
// return a non-nil error for ordinary fetch failures (HTTP errors, missing
// symbols, upstream rate limits) — those are signalled with ScrapedOK=false
// and a populated Error on the Quote. The error return is reserved for
// programmer-error-class inputs.
type MarketScraper interface {
	// ScrapeOne fetches a single symbol. includeNews and includeFundamentals
	// control how much of the Quote is populated; price fields are always
	// attempted.
	ScrapeOne(ctx context.Context, symbol string, includeNews, includeFundamentals bool) (*Quote, error)
}

// WebScraper is the generic page-scraping collaborator. It returns
// ready-to-display plain text; fetch and extraction failures are embedded in
// the returned string as readable error text rather than raised, so callers
// can hand the result straight to an LLM host.
type WebScraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}
