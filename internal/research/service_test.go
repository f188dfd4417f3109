package research

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/AdithyaRRb/AI-sales-bot/internal/api"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, otel.Tracer("test"), otel.Meter("test"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(client, logger)
}

func TestAnalyzeTwoStep(t *testing.T) {
	var order []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /financial-analysis", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "analysis")
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["company_name"] != "Acme" {
			t.Errorf("analysis payload: %v", payload)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"financial_data": api.FinancialData{
				Ticker:      "ACME",
				CompanyName: "Acme Corp",
			},
		})
	})
	mux.HandleFunc("POST /financial-insights", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "insights")
		var payload struct {
			CompanyName   string             `json:"company_name"`
			FinancialData *api.FinancialData `json:"financial_data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload.FinancialData == nil || payload.FinancialData.Ticker != "ACME" {
			t.Errorf("insights payload must carry the fetched data: %+v", payload)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"analysis": api.AnalysisResult{Insights: "solid"},
		})
	})

	s := newTestService(t, mux)
	result, err := s.Analyze(context.Background(), "  Acme  ")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.CompanyName != "Acme" {
		t.Fatalf("company name not trimmed: %q", result.CompanyName)
	}
	if result.Financial == nil || result.Financial.Ticker != "ACME" {
		t.Fatalf("financial data missing: %+v", result.Financial)
	}
	if result.Analysis == nil || result.Analysis.Insights != "solid" {
		t.Fatalf("analysis missing: %+v", result.Analysis)
	}
	if len(order) != 2 || order[0] != "analysis" || order[1] != "insights" {
		t.Fatalf("endpoints called out of order: %v", order)
	}
}

func TestAnalyzeEmptyCompany(t *testing.T) {
	requests := 0
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := s.Analyze(context.Background(), name); !errors.Is(err, ErrEmptyCompany) {
			t.Fatalf("name %q: expected ErrEmptyCompany, got %v", name, err)
		}
	}
	if requests != 0 {
		t.Fatalf("empty name must not reach the backend: %d requests", requests)
	}
}

func TestAnalyzeAnalysisFailureStopsEarly(t *testing.T) {
	insightsCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("POST /financial-analysis", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "not found"})
	})
	mux.HandleFunc("POST /financial-insights", func(w http.ResponseWriter, r *http.Request) {
		insightsCalled = true
	})

	s := newTestService(t, mux)
	result, err := s.Analyze(context.Background(), "Ghost Corp")
	if err == nil {
		t.Fatal("expected analysis error")
	}
	if result != nil {
		t.Fatalf("no partial result without financial data: %+v", result)
	}
	if insightsCalled {
		t.Fatal("insights must not run when the statements fetch failed")
	}
}

func TestAnalyzeInsightsFailureKeepsStatements(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /financial-analysis", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":        true,
			"financial_data": api.FinancialData{Ticker: "ACME"},
		})
	})
	mux.HandleFunc("POST /financial-insights", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})

	s := newTestService(t, mux)
	result, err := s.Analyze(context.Background(), "Acme")
	if err == nil {
		t.Fatal("expected insights error")
	}
	if result == nil || result.Financial == nil || result.Financial.Ticker != "ACME" {
		t.Fatalf("statements must survive an insights failure: %+v", result)
	}
	if result.Analysis != nil {
		t.Fatalf("analysis must be nil on failure: %+v", result.Analysis)
	}
}
