package tooling

import "bullhorn/internal/domain"

// Wire-visible tool names. These are stable identifiers advertised to the
// calling host; renaming one is a breaking change.
const (
	ToolGetStockPrice    = "get_stock_price"
	ToolGetStockAnalysis = "get_stock_analysis"
	ToolScrapeURL        = "scrape_url"
)

// DefaultRegistry returns the process-wide tool set in its advertised order:
// price lookup, full analysis, then generic scraping.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range []domain.ToolDefinition{
		{
			Name: ToolGetStockPrice,
			Description: "Get the current market price and basic trading stats for an NSE-listed stock. " +
				"Returns price, day high/low, 52-week range, volume, and moving averages. " +
				"Use this for quick price checks.",
			InputSchema: domain.InputSchema{
				Type: "object",
				Properties: map[string]domain.Property{
					"symbol": {
						Type: "string",
						Description: "NSE stock symbol (e.g. 'TCS', 'RELIANCE', 'HDFCBANK'). " +
							"Do NOT add .NS — it is added automatically.",
					},
				},
				Required: []string{"symbol"},
			},
		},
		{
			Name: ToolGetStockAnalysis,
			Description: "Get a comprehensive stock analysis for an NSE-listed company. " +
				"Includes price data, fundamentals (P/E, EPS, market cap, ROE, D/E, margins), " +
				"analyst consensus (rating + price targets), and the 5 most recent news headlines. " +
				"Use this when the user asks for a full stock overview or research.",
			InputSchema: domain.InputSchema{
				Type: "object",
				Properties: map[string]domain.Property{
					"symbol": {
						Type:        "string",
						Description: "NSE stock symbol (e.g. 'TCS', 'RELIANCE', 'HDFCBANK').",
					},
				},
				Required: []string{"symbol"},
			},
		},
		{
			Name: ToolScrapeURL,
			Description: "Fetch any public web URL and return clean plain-text content, " +
				"with all HTML tags, scripts, ads, and navigation stripped out. " +
				"Useful for reading financial news articles, analyst reports, " +
				"NSE/BSE announcements, or any web page the user provides.",
			InputSchema: domain.InputSchema{
				Type: "object",
				Properties: map[string]domain.Property{
					"url": {
						Type:        "string",
						Description: "Fully-qualified URL to fetch, e.g. 'https://www.moneycontrol.com/...'",
					},
				},
				Required: []string{"url"},
			},
		},
	} {
		// Registration cannot fail here: names are distinct constants.
		_ = r.Register(def)
	}
	return r
}
