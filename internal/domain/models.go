package domain

// =============================================================================
// Core Configuration
// =============================================================================

type Config struct {
	Gateway GatewayConfig `json:"gateway" yaml:"gateway"`
	Market  MarketConfig  `json:"market" yaml:"market"`
	Scrape  ScrapeConfig  `json:"scrape" yaml:"scrape"`
	Infra   InfraConfig   `json:"infra" yaml:"infra"`
}

type GatewayConfig struct {
	Port      int    `json:"port" yaml:"port"`
	AuthToken string `json:"authToken,omitempty" yaml:"authToken,omitempty"` // When set, gateway requires Authorization: Bearer <authToken>
}

// MarketConfig controls the market-data collaborator (Yahoo Finance client).
type MarketConfig struct {
	BaseURL        string `json:"baseUrl" yaml:"baseUrl"`             // quoteSummary endpoint base
	SearchBaseURL  string `json:"searchBaseUrl" yaml:"searchBaseUrl"` // search endpoint base (news)
	UserAgent      string `json:"userAgent" yaml:"userAgent"`
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
}

// ScrapeConfig controls the generic web-scraping collaborator.
type ScrapeConfig struct {
	UserAgent      string `json:"userAgent" yaml:"userAgent"`
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	MaxBodyBytes   int64  `json:"maxBodyBytes" yaml:"maxBodyBytes"`
}

type InfraConfig struct {
	LogFormat string `json:"logFormat" yaml:"logFormat"` // "json" | "text"
	LogLevel  string `json:"logLevel" yaml:"logLevel"`
}

// =============================================================================
// Tool Descriptors
// =============================================================================

// ToolDefinition is the wire shape advertised to the calling host. Field names
// and nesting (name, description, inputSchema.type/properties/required) are
// part of the contract and must not change.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema is a JSON-Schema object describing a tool's named parameters.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// Property describes a single named parameter.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ToolCallRequest is one inbound invocation: a tool name plus named arguments.
type ToolCallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// =============================================================================
// Market Data
// =============================================================================

// Quote is the record produced by the market collaborator and consumed
// read-only by the formatter. Any pointer field may be nil — not all issuers
// or symbols expose all fields, and absence is an expected state, not an
// error. String fields use "" for absent.
//
// ScrapedOK == false implies Error is non-empty and every financial field
// must be treated as unreliable.
type Quote struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`

	Price      *float64 `json:"price,omitempty"`
	Change     *float64 `json:"change,omitempty"`
	ChangePct  *float64 `json:"change_pct,omitempty"`
	DayLow     *float64 `json:"day_low,omitempty"`
	DayHigh    *float64 `json:"day_high,omitempty"`
	PrevClose  *float64 `json:"prev_close,omitempty"`
	Week52Low  *float64 `json:"week_52_low,omitempty"`
	Week52High *float64 `json:"week_52_high,omitempty"`
	Volume     *int64   `json:"volume,omitempty"`
	MA50       *float64 `json:"ma_50,omitempty"`
	MA200      *float64 `json:"ma_200,omitempty"`

	MarketCap     *float64 `json:"market_cap,omitempty"`
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	ForwardPE     *float64 `json:"forward_pe,omitempty"`
	EPS           *float64 `json:"eps,omitempty"`
	BookValue     *float64 `json:"book_value,omitempty"`
	PriceToBook   *float64 `json:"price_to_book,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	ROE           *float64 `json:"roe,omitempty"`
	ProfitMargin  *float64 `json:"profit_margin,omitempty"`
	DebtToEquity  *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio  *float64 `json:"current_ratio,omitempty"`

	Recommendation  string   `json:"recommendation,omitempty"`
	AnalystCount    *int     `json:"analyst_count,omitempty"`
	TargetMeanPrice *float64 `json:"target_mean_price,omitempty"`
	TargetHighPrice *float64 `json:"target_high_price,omitempty"`
	TargetLowPrice  *float64 `json:"target_low_price,omitempty"`

	News []NewsItem `json:"news,omitempty"`

	ScrapedOK bool   `json:"scraped_ok"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"` // ISO-8601, moment the data was captured
}

// NewsItem is one recent headline attached to a Quote.
type NewsItem struct {
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	PublishedAt string `json:"published_at,omitempty"` // ISO-8601 or "" when unknown
	Link        string `json:"link"`
}
