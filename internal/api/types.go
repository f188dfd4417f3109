package api

import "encoding/json"

// Message is a single chat transcript entry.
type Message struct {
	ID          string `json:"id,omitempty"`
	MessageType string `json:"message_type"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
}

// Session is a backend-tracked conversation thread.
type Session struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// UserInfo identifies the owner of sessions and summaries.
type UserInfo struct {
	CognitoID string `json:"cognitoId"`
	Name      string `json:"name"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	Role      string `json:"role"`
}

// ChatResponse is the reply to a non-streamed /chat request.
type ChatResponse struct {
	Response    string       `json:"response"`
	SessionID   string       `json:"session_id"`
	FileSummary *FileSummary `json:"file_summary,omitempty"`
}

// FileSummary is the structured extraction the backend produces from an
// uploaded document.
type FileSummary struct {
	UserName      string `json:"user_name"`
	InputSummary  string `json:"input_summary"`
	ClientName    string `json:"client_name"`
	ClientRegion  string `json:"client_region"`
	Vertical      string `json:"vertical"`
	Feedback      string `json:"feedback"`
	ProjectStatus string `json:"project_status"`
	Timestamp     string `json:"timestamp"`
}

// FileSummaryRecord is a persisted summary with its file metadata.
type FileSummaryRecord struct {
	UserID      string      `json:"user_id"`
	FileName    string      `json:"file_name"`
	FileSize    int64       `json:"file_size"`
	ContentType string      `json:"content_type"`
	Summary     FileSummary `json:"summary"`
	CreatedAt   string      `json:"created_at"`
}

// StreamEvent is one decoded "data: " line from /stream-chat.
type StreamEvent struct {
	Content     string       `json:"content"`
	Task        string       `json:"task,omitempty"`
	FileSummary *FileSummary `json:"file_summary,omitempty"`
}

// FinancialData carries the statements returned by /financial-analysis.
// The statement payloads are backend-shaped and rendered as-is.
type FinancialData struct {
	Ticker                string          `json:"ticker"`
	CompanyName           string          `json:"company_name"`
	Financials            json.RawMessage `json:"financials"`
	BalanceSheet          json.RawMessage `json:"balance_sheet"`
	Cashflow              json.RawMessage `json:"cashflow"`
	Earnings              json.RawMessage `json:"earnings"`
	QuarterlyFinancials   json.RawMessage `json:"quarterly_financials"`
	QuarterlyBalanceSheet json.RawMessage `json:"quarterly_balance_sheet"`
	QuarterlyCashflow     json.RawMessage `json:"quarterly_cashflow"`
}

// GrowthMetrics is the derived ratio set inside an analysis result.
type GrowthMetrics struct {
	RevenueGrowth string `json:"revenue_growth"`
	ProfitMargin  string `json:"profit_margin"`
	DebtRatio     string `json:"debt_ratio"`
	Liquidity     string `json:"liquidity"`
}

// AnalysisResult holds the AI-generated narrative fields from
// /financial-insights.
type AnalysisResult struct {
	Insights            string          `json:"insights"`
	Recommendations     string          `json:"recommendations"`
	RiskAssessment      string          `json:"risk_assessment"`
	GrowthMetrics       *GrowthMetrics  `json:"growth_metrics,omitempty"`
	ChartsData          json.RawMessage `json:"charts_data,omitempty"`
	InnovationIdeas     string          `json:"innovation_ideas"`
	CurrentTrends       string          `json:"current_trends"`
	MarketPosition      string          `json:"market_position"`
	CompetitiveAnalysis string          `json:"competitive_analysis"`
}
