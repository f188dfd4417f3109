package research

// LineSeries is one line on the demo performance chart.
type LineSeries struct {
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
}

// BarSeries is one bar chart on the research view.
type BarSeries struct {
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
}

// SampleCharts are the static demonstration series shown on the Charts tab
// until the backend supplies real chart data.
type SampleCharts struct {
	Revenue     LineSeries `json:"revenue"`
	Profit      LineSeries `json:"profit"`
	MarketShare BarSeries  `json:"market_share"`
}

// GenerateSampleCharts returns the demo revenue, profit-margin, and
// market-share series.
func GenerateSampleCharts() SampleCharts {
	quarters := []string{"Q1 2023", "Q2 2023", "Q3 2023", "Q4 2023", "Q1 2024", "Q2 2024"}
	return SampleCharts{
		Revenue: LineSeries{
			Name: "Revenue Trend",
			X:    quarters,
			Y:    []float64{100, 120, 115, 140, 135, 160},
		},
		Profit: LineSeries{
			Name: "Profit Margin %",
			X:    quarters,
			Y:    []float64{15, 18, 17, 22, 20, 25},
		},
		MarketShare: BarSeries{
			Name: "Market Share %",
			X:    []string{"Company A", "Company B", "Company C", "Our Company", "Company D"},
			Y:    []float64{25, 20, 15, 30, 10},
		},
	}
}
