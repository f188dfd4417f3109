package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AdithyaRRb/AI-sales-bot/internal/analytics"
	"github.com/AdithyaRRb/AI-sales-bot/internal/chat"
	"github.com/AdithyaRRb/AI-sales-bot/internal/research"
)

func (a *App) printFileSummary(last *chat.LastFileSummary) {
	s := last.Summary
	fmt.Printf("File summary for %s:\n", last.FileName)
	fmt.Printf("  User:     %s\n", s.UserName)
	fmt.Printf("  Client:   %s\n", s.ClientName)
	fmt.Printf("  Region:   %s\n", s.ClientRegion)
	fmt.Printf("  Vertical: %s\n", s.Vertical)
	fmt.Printf("  Feedback: %s\n", s.Feedback)
	fmt.Printf("  Status:   %s\n", s.ProjectStatus)
	fmt.Printf("  Summary:  %s\n", s.InputSummary)
}

func (a *App) printSummaries() {
	records := a.poller.Records()
	if len(records) == 0 {
		fmt.Println("No file summaries yet. Upload a PDF, DOCX, or TXT file and /summarize it.")
		return
	}

	fmt.Printf("\nFile summaries (%d):\n", len(records))
	for i, rec := range records {
		s := rec.Summary
		fmt.Printf("%d. %s [%s / %s]\n", i+1, rec.FileName, s.ProjectStatus, s.Feedback)
		fmt.Printf("   User: %s | Client: %s | Region: %s | Vertical: %s\n",
			s.UserName, s.ClientName, s.ClientRegion, s.Vertical)
		fmt.Printf("   %s\n", s.InputSummary)
		fmt.Printf("   Created: %s\n", rec.CreatedAt)
	}
	fmt.Println()
}

func (a *App) printAnalytics(args []string) {
	all := a.poller.Records()
	filter := parseFilterArgs(args)
	filtered := filter.Apply(all)
	metrics := analytics.Compute(all)

	fmt.Println("\n=== Analytics Dashboard ===")
	fmt.Printf("Total Files: %d | Unique Clients: %d | Regions: %d | Verticals: %d\n",
		metrics.TotalFiles, metrics.UniqueClients, metrics.UniqueRegions, metrics.UniqueVerticals)
	fmt.Printf("Showing %d of %d files\n", len(filtered), metrics.TotalFiles)

	if len(all) > 0 {
		fmt.Printf("Filter values: region=%s | vertical=%s\n",
			strings.Join(analytics.Regions(all), ","), strings.Join(analytics.Verticals(all), ","))
		fmt.Printf("               status=%s | feedback=%s\n",
			strings.Join(analytics.Statuses(all), ","), strings.Join(analytics.Feedbacks(all), ","))
	}

	printBar := func(series analytics.BarSeries) {
		fmt.Printf("\n%s:\n", series.Name)
		for i, label := range series.Labels {
			count := series.Values[i]
			bar := strings.Repeat("#", count)
			fmt.Printf("  %-14s %-4d %s\n", label, count, bar)
		}
	}
	printBar(analytics.StatusSeries(all))
	printBar(analytics.FeedbackSeries(all))

	fmt.Println("\nTop Regions:")
	for _, e := range analytics.TopN(metrics.RegionCounts, 5) {
		fmt.Printf("  %-14s %d\n", e.Label, e.Count)
	}
	fmt.Println("\nTop Verticals:")
	for _, e := range analytics.TopN(metrics.VerticalCounts, 5) {
		fmt.Printf("  %-14s %d\n", e.Label, e.Count)
	}

	if len(filtered) > 0 {
		fmt.Println("\nFiltered records:")
		for i, rec := range filtered {
			s := rec.Summary
			fmt.Printf("%d. %s | %s | %s | %s | %s | %s\n",
				i+1, rec.FileName, s.ClientName, s.ClientRegion, s.Vertical, s.Feedback, s.ProjectStatus)
		}
	}
	fmt.Println()
}

func (a *App) printResearch(result *research.Result) {
	fin := result.Financial
	fmt.Printf("\n=== %s (%s) ===\n", fin.CompanyName, fin.Ticker)

	if analysis := result.Analysis; analysis != nil {
		printSection := func(title, body string) {
			if strings.TrimSpace(body) == "" {
				return
			}
			fmt.Printf("\n--- %s ---\n%s\n", title, body)
		}
		printSection("Key Insights", analysis.Insights)
		printSection("Market Position", analysis.MarketPosition)
		printSection("Current Trends", analysis.CurrentTrends)
		printSection("Competitive Analysis", analysis.CompetitiveAnalysis)
		printSection("Risk Assessment", analysis.RiskAssessment)
		printSection("Innovation Ideas", analysis.InnovationIdeas)
		printSection("Strategic Recommendations", analysis.Recommendations)

		if gm := analysis.GrowthMetrics; gm != nil {
			fmt.Println("\n--- Growth Metrics ---")
			fmt.Printf("  Revenue Growth: %s\n", gm.RevenueGrowth)
			fmt.Printf("  Profit Margin:  %s\n", gm.ProfitMargin)
			fmt.Printf("  Debt Ratio:     %s\n", gm.DebtRatio)
			fmt.Printf("  Liquidity:      %s\n", gm.Liquidity)
		}
	}

	printRaw := func(title string, raw json.RawMessage) {
		if len(raw) == 0 || string(raw) == "null" {
			return
		}
		pretty, err := json.MarshalIndent(json.RawMessage(raw), "", "  ")
		if err != nil {
			pretty = raw
		}
		fmt.Printf("\n--- %s ---\n%s\n", title, pretty)
	}
	printRaw("Income Statement", fin.Financials)
	printRaw("Balance Sheet", fin.BalanceSheet)

	charts := research.GenerateSampleCharts()
	fmt.Println("\n--- Sample Charts ---")
	fmt.Printf("%s: %v over %v\n", charts.Revenue.Name, charts.Revenue.Y, charts.Revenue.X)
	fmt.Printf("%s: %v over %v\n", charts.Profit.Name, charts.Profit.Y, charts.Profit.X)
	fmt.Printf("%s: %v for %v\n", charts.MarketShare.Name, charts.MarketShare.Y, charts.MarketShare.X)
	fmt.Println()
}
