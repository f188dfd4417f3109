// Package chat owns the transcript and session state for the chat view and
// orchestrates calls to the backend client.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AdithyaRRb/AI-sales-bot/internal/api"
	"github.com/AdithyaRRb/AI-sales-bot/internal/identity"
	"github.com/AdithyaRRb/AI-sales-bot/internal/upload"
)

// State is the controller's request phase. At most one chat request is
// outstanding per session; transitions out of Sending and Streaming always
// land back on Idle.
type State int

const (
	StateIdle State = iota
	StateSending
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	default:
		return "idle"
	}
}

var (
	// ErrBusy rejects a send while another request is in flight.
	ErrBusy = errors.New("a chat request is already in flight")

	// ErrNoSession rejects a send before any session exists.
	ErrNoSession = errors.New("no active session, create a session first")
)

// LastFileSummary is the ephemeral summary attached to the most recent
// file-bearing chat turn.
type LastFileSummary struct {
	Summary  api.FileSummary
	FileName string
}

// Controller reconciles backend responses into transcript state. All
// mutation happens under mu; the embedded context is cancelled on Close so a
// torn-down view cannot be mutated by a stale in-flight request.
type Controller struct {
	client *api.Client
	owner  identity.Identity
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	historyLimit int

	// onSummariesChanged fires after a file-bearing send produced a new
	// persisted summary, so the analytics view can refetch.
	onSummariesChanged func()

	mu          sync.Mutex
	state       State
	sessionID   string
	model       string
	messages    []api.Message
	lastSummary *LastFileSummary
}

// NewController creates a controller bound to one owner identity.
func NewController(client *api.Client, owner identity.Identity, model string, logger *slog.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		client:       client,
		owner:        owner,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		historyLimit: 50,
		model:        model,
	}
}

// OnSummariesChanged registers the refresh hook invoked when a chat turn
// persists a new file summary.
func (c *Controller) OnSummariesChanged(fn func()) {
	c.onSummariesChanged = fn
}

// Close cancels any in-flight request and detaches the controller.
func (c *Controller) Close() {
	c.cancel()
}

// State returns the current request phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a send or stream is in flight.
func (c *Controller) Busy() bool {
	return c.State() != StateIdle
}

// SessionID returns the active session id, empty when none.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Model returns the selected chat model.
func (c *Controller) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// SetModel selects the chat model for subsequent sends.
func (c *Controller) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// Messages returns a copy of the transcript.
func (c *Controller) Messages() []api.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// LastFileSummary returns the summary from the most recent file-bearing
// turn, nil when none.
func (c *Controller) LastFileSummary() *LastFileSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSummary
}

// Sessions lists the owner's sessions.
func (c *Controller) Sessions() ([]api.Session, error) {
	return c.client.ListSessions(c.ctx, c.owner.UserID)
}

// NewSession creates a session and makes it active. The transcript and last
// file summary are cleared before the new id is installed, so stale content
// from the previous session is never visible. Returns ErrBusy while a send or
// stream is in flight: an active stream appends to the transcript, so the
// transcript must not be swapped out from under it.
func (c *Controller) NewSession(title string) (*api.Session, error) {
	if c.Busy() {
		return nil, ErrBusy
	}

	sess, err := c.client.CreateSession(c.ctx, c.owner.UserInfo(), title)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.messages = nil
	c.lastSummary = nil
	c.sessionID = sess.SessionID
	c.mu.Unlock()

	c.logger.Info("created new session", "session_id", sess.SessionID, "title", sess.Title)
	return sess, nil
}

// LoadSession switches to an existing session and populates its history.
// Returns ErrBusy while a send or stream is in flight.
func (c *Controller) LoadSession(sessionID string) error {
	if c.Busy() {
		return ErrBusy
	}

	history, err := c.client.SessionHistory(c.ctx, sessionID, c.historyLimit)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.messages = nil
	c.lastSummary = nil
	c.sessionID = sessionID
	c.messages = history
	c.mu.Unlock()

	c.logger.Info("loaded session", "session_id", sessionID, "message_count", len(history))
	return nil
}

// ClearChat drops the transcript and last file summary without changing the
// active session. Returns ErrBusy while a send or stream is in flight.
func (c *Controller) ClearChat() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return ErrBusy
	}
	c.messages = nil
	c.lastSummary = nil
	return nil
}

// begin appends the optimistic user message, transitions into next, and
// returns the request parameters. The user entry is never rolled back: a
// later failure surfaces as an error while the transcript keeps it.
func (c *Controller) begin(message string, next State) (sessionID, model string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return "", "", ErrBusy
	}
	if c.sessionID == "" {
		return "", "", ErrNoSession
	}

	c.messages = append(c.messages, api.Message{
		ID:          uuid.NewString(),
		MessageType: "user",
		Content:     message,
		Timestamp:   time.Now().Format(time.RFC3339),
	})
	c.lastSummary = nil
	c.state = next
	return c.sessionID, c.model, nil
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
}

// Send posts a chat turn and waits for the complete reply. A file, when
// attached, is validated before any network call.
func (c *Controller) Send(message string, file *upload.File) (*api.ChatResponse, error) {
	if file != nil {
		if err := upload.Validate(file.Name); err != nil {
			return nil, err
		}
	}

	sessionID, model, err := c.begin(message, StateSending)
	if err != nil {
		return nil, err
	}
	defer c.finish()

	resp, err := c.client.SendMessage(c.ctx, sessionID, c.owner.UserID, message, model, file)
	if err != nil {
		c.logger.Error("failed to send message", "session_id", sessionID, "error", err)
		return nil, err
	}

	c.mu.Lock()
	c.messages = append(c.messages, api.Message{
		ID:          uuid.NewString(),
		MessageType: "assistant",
		Content:     resp.Response,
		Timestamp:   time.Now().Format(time.RFC3339),
	})
	if file != nil && resp.FileSummary != nil {
		c.lastSummary = &LastFileSummary{Summary: *resp.FileSummary, FileName: file.Name}
	}
	notify := file != nil && resp.FileSummary != nil && c.onSummariesChanged != nil
	c.mu.Unlock()

	if notify {
		c.onSummariesChanged()
	}
	return resp, nil
}

// Stream posts a chat turn and appends the reply incrementally. An empty
// assistant placeholder goes into the transcript before the request starts
// so deltas have a stable target; on failure the placeholder stays empty.
// onDelta, when set, additionally receives each fragment for live rendering.
func (c *Controller) Stream(message string, file *upload.File, onDelta func(string)) error {
	if file != nil {
		if err := upload.Validate(file.Name); err != nil {
			return err
		}
	}

	sessionID, model, err := c.begin(message, StateStreaming)
	if err != nil {
		return err
	}
	defer c.finish()

	c.mu.Lock()
	placeholder := len(c.messages)
	c.messages = append(c.messages, api.Message{
		ID:          uuid.NewString(),
		MessageType: "assistant",
		Content:     "",
		Timestamp:   time.Now().Format(time.RFC3339),
	})
	c.mu.Unlock()

	err = c.client.StreamMessage(c.ctx, sessionID, c.owner.UserID, message, model, file,
		func(delta string) {
			c.mu.Lock()
			c.messages[placeholder].Content += delta
			c.mu.Unlock()
			if onDelta != nil {
				onDelta(delta)
			}
		},
		func(summary *api.FileSummary) {
			if file == nil || summary == nil {
				return
			}
			c.mu.Lock()
			c.lastSummary = &LastFileSummary{Summary: *summary, FileName: file.Name}
			c.mu.Unlock()
		},
	)
	if err != nil {
		c.logger.Error("failed to stream message", "session_id", sessionID, "error", err)
		return err
	}
	return nil
}

// SummarizeFile submits a document for standalone summarization and records
// the result as the last file summary.
func (c *Controller) SummarizeFile(file *upload.File) (*api.FileSummary, error) {
	if err := upload.Validate(file.Name); err != nil {
		return nil, err
	}

	summary, err := c.client.SummarizeFile(c.ctx, c.owner.UserID, file)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lastSummary = &LastFileSummary{Summary: *summary, FileName: file.Name}
	notify := c.onSummariesChanged != nil
	c.mu.Unlock()

	if notify {
		c.onSummariesChanged()
	}
	return summary, nil
}

// Transcript renders the conversation as "ROLE: content" blocks separated by
// blank lines.
func (c *Controller) Transcript() string {
	messages := c.Messages()
	parts := make([]string, len(messages))
	for i, msg := range messages {
		parts[i] = fmt.Sprintf("%s: %s", strings.ToUpper(msg.MessageType), msg.Content)
	}
	return strings.Join(parts, "\n\n")
}

// ExportTranscript writes the transcript to a timestamped text file under
// dir and returns its path.
func (c *Controller) ExportTranscript(dir string) (string, error) {
	stamp := strings.ReplaceAll(time.Now().Format("2006-01-02T15:04:05"), ":", "-")
	path := filepath.Join(dir, fmt.Sprintf("chat_export_%s.txt", stamp))
	if err := os.WriteFile(path, []byte(c.Transcript()), 0644); err != nil {
		return "", fmt.Errorf("failed to export chat: %w", err)
	}
	return path, nil
}
