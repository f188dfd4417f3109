package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AdithyaRRb/AI-sales-bot/internal/upload"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.Status, e.Message)
}

// Client wraps HTTP calls to the summarization backend. One method per
// endpoint, no retries, no auth.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	meter      metric.Meter
}

// NewClient constructs a backend client.
func NewClient(baseURL string, tracer trace.Tracer, meter metric.Meter) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		tracer:     tracer,
		meter:      meter,
	}
}

// Health reports whether the backend answers its health check.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// CreateSession asks the backend for a new conversation thread. An empty
// title gets a timestamped default.
func (c *Client) CreateSession(ctx context.Context, user UserInfo, title string) (*Session, error) {
	ctx, span := c.tracer.Start(ctx, "create_session")
	defer span.End()

	if title == "" {
		title = fmt.Sprintf("Session %s", time.Now().Format("2006-01-02 15:04:05"))
	}
	payload := struct {
		UserInfo
		Title string `json:"title"`
	}{UserInfo: user, Title: title}

	var sess Session
	if err := c.postJSON(ctx, "/sessions", payload, &sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &sess, nil
}

// ListSessions fetches all sessions owned by a user.
func (c *Client) ListSessions(ctx context.Context, userID string) ([]Session, error) {
	var out struct {
		Sessions []Session `json:"sessions"`
	}
	if err := c.getJSON(ctx, "/users/"+userID+"/sessions", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	return out.Sessions, nil
}

// SessionHistory fetches up to limit messages of a session, oldest first.
func (c *Client) SessionHistory(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	var out struct {
		Messages []Message `json:"messages"`
	}
	path := fmt.Sprintf("/sessions/%s/history?limit=%d", sessionID, limit)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch chat history: %w", err)
	}
	return out.Messages, nil
}

// SendMessage posts a chat turn and waits for the complete reply. The file
// is optional context for the model.
func (c *Client) SendMessage(ctx context.Context, sessionID, userID, message, model string, file *upload.File) (*ChatResponse, error) {
	ctx, span := c.tracer.Start(ctx, "send_message")
	defer span.End()
	start := time.Now()

	body, contentType, err := chatForm(sessionID, userID, message, model, file)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var out ChatResponse
	if err := c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	c.recordDuration(ctx, time.Since(start))
	c.countMessages(ctx, 1)
	return &out, nil
}

// StreamMessage posts a chat turn and consumes the chunked reply
// incrementally. onDelta receives each text fragment in arrival order;
// onSummary fires when a line carries a file summary.
func (c *Client) StreamMessage(ctx context.Context, sessionID, userID, message, model string, file *upload.File, onDelta func(string), onSummary func(*FileSummary)) error {
	ctx, span := c.tracer.Start(ctx, "stream_message")
	defer span.End()
	start := time.Now()

	body, contentType, err := chatForm(sessionID, userID, message, model, file)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stream-chat", body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to stream message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.asAPIError(resp)
	}

	deltas := 0
	err = consumeStream(resp.Body, func(delta string) {
		deltas++
		onDelta(delta)
	}, onSummary)
	if err != nil {
		return fmt.Errorf("stream interrupted: %w", err)
	}

	c.recordDuration(ctx, time.Since(start))
	c.countMessages(ctx, 1)
	c.countDeltas(ctx, int64(deltas))
	return nil
}

// SummarizeFile submits a document for standalone summarization.
func (c *Client) SummarizeFile(ctx context.Context, userID string, file *upload.File) (*FileSummary, error) {
	ctx, span := c.tracer.Start(ctx, "summarize_file")
	defer span.End()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("user_id", userID); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if err := writeFilePart(w, file); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/summarize-file", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		Summary *FileSummary `json:"summary"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("failed to summarize file: %w", err)
	}
	if out.Summary == nil {
		return nil, fmt.Errorf("empty summary in response")
	}
	return out.Summary, nil
}

// ListSummaries fetches all summary records for a user. The backend has
// returned both a wrapped object and a bare array over time, so both are
// accepted.
func (c *Client) ListSummaries(ctx context.Context, userID string) ([]FileSummaryRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/summaries/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch summaries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.asAPIError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var records []FileSummaryRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}
	var wrapped struct {
		Summaries []FileSummaryRecord `json:"summaries"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summaries: %w", err)
	}
	return wrapped.Summaries, nil
}

// FinancialAnalysis fetches financial statements for a company.
func (c *Client) FinancialAnalysis(ctx context.Context, companyName string) (*FinancialData, error) {
	ctx, span := c.tracer.Start(ctx, "financial_analysis")
	defer span.End()

	payload := map[string]string{"company_name": companyName}
	var out struct {
		Success       bool           `json:"success"`
		Error         string         `json:"error"`
		FinancialData *FinancialData `json:"financial_data"`
	}
	if err := c.postJSON(ctx, "/financial-analysis", payload, &out); err != nil {
		return nil, fmt.Errorf("failed to analyze financial data: %w", err)
	}
	if !out.Success || out.FinancialData == nil {
		if out.Error != "" {
			return nil, fmt.Errorf("financial analysis failed: %s", out.Error)
		}
		return nil, fmt.Errorf("financial analysis failed")
	}
	return out.FinancialData, nil
}

// FinancialInsights asks for the AI narrative built on previously fetched
// financial data.
func (c *Client) FinancialInsights(ctx context.Context, companyName string, data *FinancialData) (*AnalysisResult, error) {
	ctx, span := c.tracer.Start(ctx, "financial_insights")
	defer span.End()

	payload := struct {
		CompanyName   string         `json:"company_name"`
		FinancialData *FinancialData `json:"financial_data"`
	}{CompanyName: companyName, FinancialData: data}

	var out struct {
		Success  bool            `json:"success"`
		Error    string          `json:"error"`
		Analysis *AnalysisResult `json:"analysis"`
	}
	if err := c.postJSON(ctx, "/financial-insights", payload, &out); err != nil {
		return nil, fmt.Errorf("failed to get financial insights: %w", err)
	}
	if !out.Success || out.Analysis == nil {
		if out.Error != "" {
			return nil, fmt.Errorf("financial insights failed: %s", out.Error)
		}
		return nil, fmt.Errorf("financial insights failed")
	}
	return out.Analysis, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.asAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) asAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func (c *Client) recordDuration(ctx context.Context, d time.Duration) {
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(d.Milliseconds()))
	}
}

func (c *Client) countMessages(ctx context.Context, n int64) {
	counter, err := c.meter.Int64Counter(
		"chat.messages.sent",
		metric.WithDescription("Chat messages sent to the backend"),
	)
	if err == nil {
		counter.Add(ctx, n)
	}
}

func (c *Client) countDeltas(ctx context.Context, n int64) {
	counter, err := c.meter.Int64Counter(
		"chat.stream.deltas",
		metric.WithDescription("Text deltas received over streamed replies"),
	)
	if err == nil {
		counter.Add(ctx, n)
	}
}

// chatForm builds the multipart body shared by /chat and /stream-chat. The
// file part is omitted when no file is attached.
func chatForm(sessionID, userID, message, model string, file *upload.File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"session_id": sessionID,
		"user_id":    userID,
		"message":    message,
		"model":      model,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to build form: %w", err)
		}
	}
	if file != nil {
		if err := writeFilePart(w, file); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to build form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, file *upload.File) error {
	part, err := w.CreateFormFile("file", file.Name)
	if err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}
	return nil
}
