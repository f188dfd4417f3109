// Package research drives the company-research view: financial statements
// first, then the AI narrative built on top of them.
package research

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/AdithyaRRb/AI-sales-bot/internal/api"
)

// ErrEmptyCompany rejects a research request without a company name.
var ErrEmptyCompany = errors.New("please enter a company name")

// Result bundles both halves of a company analysis. Analysis may be nil
// when the insights call failed after the statements were already fetched;
// the view still renders the statements in that case.
type Result struct {
	CompanyName string
	Financial   *api.FinancialData
	Analysis    *api.AnalysisResult
}

// Service wraps the two research endpoints.
type Service struct {
	client *api.Client
	logger *slog.Logger
}

// NewService constructs a research service.
func NewService(client *api.Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Analyze fetches financial statements for a company and then the AI
// insights derived from them. An insights failure returns the partial
// result alongside the error so the statements are not lost.
func (s *Service) Analyze(ctx context.Context, companyName string) (*Result, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, ErrEmptyCompany
	}

	financial, err := s.client.FinancialAnalysis(ctx, companyName)
	if err != nil {
		return nil, err
	}
	result := &Result{CompanyName: companyName, Financial: financial}

	analysis, err := s.client.FinancialInsights(ctx, companyName, financial)
	if err != nil {
		s.logger.Warn("financial insights failed", "company", companyName, "error", err)
		return result, err
	}
	result.Analysis = analysis

	s.logger.Info("company analysis complete", "company", companyName, "ticker", financial.Ticker)
	return result, nil
}
