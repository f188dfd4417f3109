package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/AdithyaRRb/AI-sales-bot/internal/upload"
)

func newTestClient(url string) *Client {
	return NewClient(url, otel.Tracer("test"), otel.Meter("test"))
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if !c.Health(context.Background()) {
		t.Fatal("expected healthy backend")
	}

	srv.Close()
	if c.Health(context.Background()) {
		t.Fatal("expected health check to fail after server shutdown")
	}
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sessions" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if payload["cognitoId"] != "user_abc12345" {
			t.Errorf("missing user fields in payload: %v", payload)
		}
		_ = json.NewEncoder(w).Encode(Session{SessionID: "s-1", Title: payload["title"].(string)})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	sess, err := c.CreateSession(context.Background(), UserInfo{CognitoID: "user_abc12345"}, "My Session")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sess.SessionID != "s-1" || sess.Title != "My Session" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestSendMessageMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		for field, want := range map[string]string{
			"session_id": "s-1",
			"user_id":    "u-1",
			"message":    "hello",
			"model":      "gpt-3.5-turbo",
		} {
			if got := r.FormValue(field); got != want {
				t.Errorf("field %s: got %q, want %q", field, got, want)
			}
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else {
			file.Close()
			if header.Filename != "notes.txt" {
				t.Errorf("unexpected filename %q", header.Filename)
			}
		}
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Response:    "hi",
			SessionID:   "s-1",
			FileSummary: &FileSummary{ClientName: "Acme"},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	file := &upload.File{Name: "notes.txt", ContentType: upload.TypeText, Data: []byte("meeting notes")}
	resp, err := c.SendMessage(context.Background(), "s-1", "u-1", "hello", "gpt-3.5-turbo", file)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if resp.Response != "hi" || resp.FileSummary == nil || resp.FileSummary.ClientName != "Acme" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSendMessageOmitsFilePartWhenAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		if _, _, err := r.FormFile("file"); err == nil {
			t.Error("file part should be omitted when no file is attached")
		}
		_ = json.NewEncoder(w).Encode(ChatResponse{Response: "ok"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.SendMessage(context.Background(), "s-1", "u-1", "hi", "gpt-4", nil); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
}

func TestSendMessageNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.SendMessage(context.Background(), "s-1", "u-1", "hi", "gpt-4", nil)
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Fatalf("unexpected status %d", apiErr.Status)
	}
}

func TestStreamMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for _, chunk := range []string{
			"data: {\"content\":\"Hel\"}\n",
			"data: {\"content\":\"lo\"}\ndata: ",
			"{\"content\":\"!\",\"file_summary\":{\"client_name\":\"Acme\"}}\n",
		} {
			fmt.Fprint(w, chunk)
			flusher.Flush()
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	var text string
	var summary *FileSummary
	err := c.StreamMessage(context.Background(), "s-1", "u-1", "hi", "gpt-4", nil,
		func(delta string) { text += delta },
		func(s *FileSummary) { summary = s },
	)
	if err != nil {
		t.Fatalf("StreamMessage failed: %v", err)
	}
	if text != "Hello!" {
		t.Fatalf("expected Hello!, got %q", text)
	}
	if summary == nil || summary.ClientName != "Acme" {
		t.Fatalf("summary callback not fired correctly: %+v", summary)
	}
}

func TestStreamMessageNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad session", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.StreamMessage(context.Background(), "s-1", "u-1", "hi", "gpt-4", nil, func(string) {}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 APIError, got %v", err)
	}
}

func TestListSummariesWrappedAndBare(t *testing.T) {
	records := []FileSummaryRecord{
		{UserID: "u-1", FileName: "a.pdf", Summary: FileSummary{ClientName: "Acme"}},
		{UserID: "u-1", FileName: "b.txt", Summary: FileSummary{ClientName: "Globex"}},
	}

	for name, body := range map[string]any{
		"bare":    records,
		"wrapped": map[string]any{"summaries": records},
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/summaries/u-1" {
					http.NotFound(w, r)
					return
				}
				_ = json.NewEncoder(w).Encode(body)
			}))
			defer srv.Close()

			c := newTestClient(srv.URL)
			got, err := c.ListSummaries(context.Background(), "u-1")
			if err != nil {
				t.Fatalf("ListSummaries failed: %v", err)
			}
			if len(got) != 2 || got[0].FileName != "a.pdf" {
				t.Fatalf("unexpected records: %+v", got)
			}
		})
	}
}

func TestFinancialAnalysisFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "company not found"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.FinancialAnalysis(context.Background(), "Nonexistent Corp"); err == nil {
		t.Fatal("expected error when success=false")
	}
}

func TestFinancialInsights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			CompanyName   string         `json:"company_name"`
			FinancialData *FinancialData `json:"financial_data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if payload.CompanyName != "Acme" || payload.FinancialData == nil {
			t.Errorf("payload missing fields: %+v", payload)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"analysis": AnalysisResult{
				Insights: "strong revenue growth",
				GrowthMetrics: &GrowthMetrics{
					RevenueGrowth: "12%",
				},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	analysis, err := c.FinancialInsights(context.Background(), "Acme", &FinancialData{Ticker: "ACME"})
	if err != nil {
		t.Fatalf("FinancialInsights failed: %v", err)
	}
	if analysis.Insights != "strong revenue growth" || analysis.GrowthMetrics.RevenueGrowth != "12%" {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}
}
