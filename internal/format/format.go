// Package format renders a market Quote as plain text for an LLM host.
// Rendering is pure: the same Quote always produces byte-identical output,
// and absent fields silently omit their block instead of printing
// placeholders.
package format

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"bullhorn/internal/domain"
)

// Price renders the concise price summary: header, price/change line, day
// range, 52-week range, volume/moving-average line, and a source footer.
// Every block except header and footer is conditional on its fields.
func Price(q *domain.Quote) string {
	name := q.CompanyName
	if name == "" {
		name = q.Symbol
	}
	lines := []string{fmt.Sprintf("%s (%s) | NSE", q.Symbol, name)}

	if q.Price != nil {
		line := "Price: ₹" + rupees(*q.Price)
		if q.Change != nil && q.ChangePct != nil {
			sign := ""
			if *q.Change >= 0 {
				sign = "+"
			}
			line += fmt.Sprintf("  |  Change: %s₹%.2f (%s%.2f%%)", sign, *q.Change, sign, *q.ChangePct)
		}
		lines = append(lines, line)
	}

	if q.DayLow != nil && q.DayHigh != nil {
		line := fmt.Sprintf("Day Range: ₹%s – ₹%s", rupees(*q.DayLow), rupees(*q.DayHigh))
		if nonzero(q.PrevClose) {
			line += "  |  Prev Close: ₹" + rupees(*q.PrevClose)
		}
		lines = append(lines, line)
	}

	if q.Week52Low != nil && q.Week52High != nil {
		lines = append(lines, fmt.Sprintf("52W Range: ₹%s – ₹%s", rupees(*q.Week52Low), rupees(*q.Week52High)))
	}

	var parts []string
	if q.Volume != nil && *q.Volume != 0 {
		parts = append(parts, "Volume: "+humanize.Comma(*q.Volume))
	}
	if nonzero(q.MA50) {
		parts = append(parts, "MA50: ₹"+rupees(*q.MA50))
	}
	if nonzero(q.MA200) {
		parts = append(parts, "MA200: ₹"+rupees(*q.MA200))
	}
	if len(parts) > 0 {
		lines = append(lines, strings.Join(parts, "  |  "))
	}

	lines = append(lines, footer(q.Timestamp))
	return strings.Join(lines, "\n")
}

// Analysis renders the detailed multi-section report: banner header, sector
// line, business description, the full Price block, fundamentals, analyst
// view, up to five recent news items, and a source footer.
func Analysis(q *domain.Quote) string {
	name := q.CompanyName
	if name == "" {
		name = q.Symbol
	}
	banner := strings.Repeat("=", 60)
	sections := []string{banner, fmt.Sprintf("%s  —  %s", q.Symbol, name), banner}

	if q.Sector != "" || q.Industry != "" {
		sections = append(sections, fmt.Sprintf("Sector: %s  |  Industry: %s", orNA(q.Sector), orNA(q.Industry)))
	}

	if q.Description != "" {
		sections = append(sections, "\nBusiness: "+strings.TrimSpace(q.Description))
	}

	sections = append(sections, "\n── PRICE ──", Price(q))

	var fund []string
	if nonzero(q.MarketCap) {
		// Raw currency units to crore (1e7).
		fund = append(fund, fmt.Sprintf("Market Cap: ₹%s Cr", crores(*q.MarketCap)))
	}
	if nonzero(q.PERatio) {
		fund = append(fund, fmt.Sprintf("P/E (TTM): %.1f", *q.PERatio))
	}
	if nonzero(q.ForwardPE) {
		fund = append(fund, fmt.Sprintf("Forward P/E: %.1f", *q.ForwardPE))
	}
	if nonzero(q.EPS) {
		fund = append(fund, fmt.Sprintf("EPS (TTM): ₹%.2f", *q.EPS))
	}
	if nonzero(q.BookValue) {
		fund = append(fund, fmt.Sprintf("Book Value: ₹%.2f", *q.BookValue))
	}
	if nonzero(q.PriceToBook) {
		fund = append(fund, fmt.Sprintf("P/B Ratio: %.2fx", *q.PriceToBook))
	}
	if nonzero(q.DividendYield) {
		fund = append(fund, fmt.Sprintf("Dividend Yield: %.2f%%", *q.DividendYield*100))
	}
	if nonzero(q.Beta) {
		fund = append(fund, fmt.Sprintf("Beta: %.2f", *q.Beta))
	}
	if nonzero(q.ROE) {
		fund = append(fund, fmt.Sprintf("ROE: %.1f%%", *q.ROE*100))
	}
	if nonzero(q.ProfitMargin) {
		fund = append(fund, fmt.Sprintf("Net Margin: %.1f%%", *q.ProfitMargin*100))
	}
	if nonzero(q.DebtToEquity) {
		fund = append(fund, fmt.Sprintf("D/E Ratio: %.2f", *q.DebtToEquity))
	}
	if nonzero(q.CurrentRatio) {
		fund = append(fund, fmt.Sprintf("Current Ratio: %.2f", *q.CurrentRatio))
	}
	if len(fund) > 0 {
		sections = append(sections, "\n── FUNDAMENTALS ──")
		sections = append(sections, fund...)
	}

	var analyst []string
	if q.Recommendation != "" {
		count := ""
		if q.AnalystCount != nil && *q.AnalystCount != 0 {
			count = fmt.Sprintf(" (%d analysts)", *q.AnalystCount)
		}
		analyst = append(analyst, "Consensus: "+strings.ToUpper(q.Recommendation)+count)
	}
	if nonzero(q.TargetMeanPrice) {
		analyst = append(analyst, fmt.Sprintf(
			"Price Targets:  Mean ₹%s  |  High ₹%s  |  Low ₹%s",
			rupees(*q.TargetMeanPrice), rupees(deref(q.TargetHighPrice)), rupees(deref(q.TargetLowPrice))))
	}
	if len(analyst) > 0 {
		sections = append(sections, "\n── ANALYST VIEW ──")
		sections = append(sections, analyst...)
	}

	if len(q.News) > 0 {
		sections = append(sections, "\n── RECENT NEWS ──")
		items := q.News
		if len(items) > 5 {
			items = items[:5]
		}
		for i, item := range items {
			date := "N/A"
			if item.PublishedAt != "" {
				date = clip(item.PublishedAt, 10)
			}
			sections = append(sections, fmt.Sprintf("%d. %s", i+1, item.Title))
			sections = append(sections, fmt.Sprintf("   %s  |  %s  |  %s", item.Publisher, date, item.Link))
		}
	}

	sections = append(sections, "\n"+footer(q.Timestamp))
	return strings.Join(sections, "\n")
}

// nonzero reports whether p is present and not exactly zero. Zero-valued
// optional fields are omitted from their block, matching the reference
// output of the upstream formatter.
func nonzero(p *float64) bool {
	return p != nil && *p != 0
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// rupees renders an absolute rupee amount with digit grouping and two
// decimals, e.g. 3500 -> "3,500.00".
func rupees(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// crores renders a raw currency amount as grouped integer crore.
func crores(v float64) string {
	return humanize.FormatFloat("#,###.", v/1e7)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// footer renders the source line. The timestamp is truncated to seconds
// granularity (19 chars of ISO-8601), dropping any sub-second or timezone
// suffix.
func footer(timestamp string) string {
	return fmt.Sprintf("[Source: Yahoo Finance  |  As of: %s]", clip(timestamp, 19))
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
