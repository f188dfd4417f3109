// Package app is the terminal front end: a REPL over the chat controller
// plus the analytics and research views.
package app

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/AdithyaRRb/AI-sales-bot/internal/analytics"
	"github.com/AdithyaRRb/AI-sales-bot/internal/api"
	"github.com/AdithyaRRb/AI-sales-bot/internal/chat"
	"github.com/AdithyaRRb/AI-sales-bot/internal/config"
	"github.com/AdithyaRRb/AI-sales-bot/internal/identity"
	"github.com/AdithyaRRb/AI-sales-bot/internal/research"
	"github.com/AdithyaRRb/AI-sales-bot/internal/telemetry"
	"github.com/AdithyaRRb/AI-sales-bot/internal/upload"
	"github.com/AdithyaRRb/AI-sales-bot/internal/web"
)

// healthInterval matches the original front end's 30s health poll.
const healthInterval = 30 * time.Second

var suggestions = []string{
	"Please analyze this document and provide a summary",
	"What are the key insights from this file?",
	"Extract the main points from this document",
	"Summarize the content and identify key stakeholders",
	"Analyze this file and provide business insights",
}

// App wires the views together and runs the REPL.
type App struct {
	cfg        config.Config
	logger     *slog.Logger
	db         *sql.DB
	owner      identity.Identity
	client     *api.Client
	controller *chat.Controller
	poller     *analytics.Poller
	research   *research.Service
	dashboard  *web.Server
	cleanup    func()

	online    atomic.Bool
	attached  *upload.File
	streaming bool
}

// New initializes the application: logging, telemetry, the local store, the
// shared owner identity, and every view.
func New(cfg config.Config) (*App, error) {
	logger, err := telemetry.InitLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := context.Background()
	tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	db, err := telemetry.InitDB(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	owner, err := identity.LoadOrCreate(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity: %w", err)
	}

	if cfg.Debug {
		logger.Info("Debug mode enabled")
	}
	logger.Info("user initialized", "user_id", owner.UserID)

	client := api.NewClient(cfg.BaseURL, tracer, meter)
	controller := chat.NewController(client, owner, cfg.Model, logger)

	store := analytics.NewStore(db)
	poller := analytics.NewPoller(func(ctx context.Context) ([]api.FileSummaryRecord, error) {
		return client.ListSummaries(ctx, owner.UserID)
	}, store, owner.UserID, logger)
	poller.OnNewData(func(added int) {
		fmt.Printf("\n[analytics] %d new file summary record(s) available\n", added)
	})
	controller.OnSummariesChanged(func() {
		if err := poller.Refresh(context.Background()); err != nil {
			logger.Warn("summary refresh failed", "error", err)
		}
	})

	a := &App{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		owner:      owner,
		client:     client,
		controller: controller,
		poller:     poller,
		research:   research.NewService(client, logger),
		cleanup:    cleanup,
		streaming:  true,
	}

	if cfg.DashboardAddr != "" {
		a.dashboard = web.NewServer(cfg.DashboardAddr, poller, owner.UserID, logger)
	}

	if cfg.SessionID != "" {
		if err := controller.LoadSession(cfg.SessionID); err != nil {
			logger.Warn("failed to load session, starting without one", "session_id", cfg.SessionID, "error", err)
		}
	}

	return a, nil
}

// Run starts the pollers and the REPL, blocking until the user quits.
func (a *App) Run() error {
	defer a.db.Close()
	defer a.cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer a.controller.Close()

	go a.pollHealth(ctx)
	go a.poller.Run(ctx)
	if a.dashboard != nil {
		a.dashboard.Start(ctx)
	}
	if err := a.poller.Refresh(ctx); err != nil {
		a.logger.Warn("initial analytics load failed", "error", err)
	}

	fmt.Println("=== AIron Rush ===")
	fmt.Printf("User: %s\n", a.owner.UserID)
	fmt.Printf("Model: %s\n", a.controller.Model())
	if id := a.controller.SessionID(); id != "" {
		fmt.Printf("Session: %s\n", id)
	}
	fmt.Println("Type /help for commands, /quit to exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			if len(a.controller.Messages()) == 0 {
				a.printSuggestions()
			}
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldQuit, err := a.handleCommand(ctx, input)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				a.logger.Error("command error", "error", err)
			}
			if shouldQuit {
				break
			}
			continue
		}

		a.sendInput(input)
	}

	fmt.Println("Goodbye!")
	return nil
}

// pollHealth flips the online flag every 30 seconds for the lifetime of the
// app. Failures only flip the flag; they never affect other state.
func (a *App) pollHealth(ctx context.Context) {
	check := func() {
		online := a.client.Health(ctx)
		if online != a.online.Swap(online) {
			if online {
				fmt.Println("\n[status] API online")
			} else {
				fmt.Println("\n[status] API offline")
			}
		}
	}
	check()

	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// sendInput runs one chat turn with the attached file, if any. The
// attachment is consumed by the turn regardless of outcome.
func (a *App) sendInput(input string) {
	if !a.online.Load() {
		fmt.Println("Error: API is offline, message not sent")
		return
	}

	file := a.attached
	a.attached = nil

	if a.streaming {
		fmt.Print("Bot: ")
		err := a.controller.Stream(input, file, func(delta string) {
			fmt.Print(delta)
		})
		fmt.Println()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	} else {
		resp, err := a.controller.Send(input, file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		} else {
			fmt.Printf("Bot: %s\n", resp.Response)
		}
	}

	if last := a.controller.LastFileSummary(); last != nil {
		fmt.Println()
		a.printFileSummary(last)
	}
	fmt.Println()
}

func (a *App) handleCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/quit", "/exit":
		return true, nil

	case "/new-session":
		title := strings.TrimSpace(strings.TrimPrefix(cmd, "/new-session"))
		sess, err := a.controller.NewSession(title)
		if err != nil {
			return false, fmt.Errorf("failed to create session: %w", err)
		}
		fmt.Printf("New session created: %s (%s)\n", sess.Title, sess.SessionID)
		return false, nil

	case "/sessions":
		sessions, err := a.controller.Sessions()
		if err != nil {
			return false, fmt.Errorf("failed to load sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions yet. Use /new-session to start one.")
			return false, nil
		}
		fmt.Println("\nSessions:")
		for i, sess := range sessions {
			current := ""
			if sess.SessionID == a.controller.SessionID() {
				current = " (current)"
			}
			fmt.Printf("%d. %s - %s%s\n", i+1, sess.SessionID, sess.Title, current)
		}
		fmt.Println()
		return false, nil

	case "/load":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /load <session-id>")
		}
		if err := a.controller.LoadSession(parts[1]); err != nil {
			return false, fmt.Errorf("failed to load session: %w", err)
		}
		fmt.Printf("Loaded session %s (%d messages)\n", parts[1], len(a.controller.Messages()))
		return false, nil

	case "/model":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /model <%s>", strings.Join(config.Models, "|"))
		}
		if !config.ValidModel(parts[1]) {
			return false, fmt.Errorf("unknown model: %s", parts[1])
		}
		a.controller.SetModel(parts[1])
		fmt.Printf("Model set to: %s\n", parts[1])
		return false, nil

	case "/stream":
		if len(parts) < 2 || (parts[1] != "on" && parts[1] != "off") {
			return false, fmt.Errorf("usage: /stream on|off")
		}
		a.streaming = parts[1] == "on"
		fmt.Printf("Streaming %s\n", parts[1])
		return false, nil

	case "/attach":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /attach <file>")
		}
		file, err := upload.Open(parts[1])
		if err != nil {
			return false, err
		}
		a.attached = file
		fmt.Printf("Attached %s (%.1f KB)\n", file.Name, float64(file.Size())/1024)
		return false, nil

	case "/detach":
		a.attached = nil
		fmt.Println("Attachment removed")
		return false, nil

	case "/summarize":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /summarize <file>")
		}
		if !a.online.Load() {
			return false, fmt.Errorf("API is offline")
		}
		file, err := upload.Open(parts[1])
		if err != nil {
			return false, err
		}
		summary, err := a.controller.SummarizeFile(file)
		if err != nil {
			return false, fmt.Errorf("failed to summarize file: %w", err)
		}
		fmt.Println("File summarized successfully")
		a.printFileSummary(&chat.LastFileSummary{Summary: *summary, FileName: file.Name})
		return false, nil

	case "/summaries":
		a.printSummaries()
		return false, nil

	case "/analytics":
		a.printAnalytics(parts[1:])
		return false, nil

	case "/export-csv":
		filter := parseFilterArgs(parts[1:])
		path, err := analytics.ExportCSV(".", filter.Apply(a.poller.Records()))
		if err != nil {
			return false, err
		}
		fmt.Printf("Analytics exported to %s\n", path)
		return false, nil

	case "/refresh":
		if err := a.poller.Refresh(ctx); err != nil {
			return false, fmt.Errorf("failed to refresh analytics: %w", err)
		}
		fmt.Printf("Loaded %d file summaries\n", len(a.poller.Records()))
		return false, nil

	case "/research":
		company := strings.TrimSpace(strings.TrimPrefix(cmd, "/research"))
		return false, a.runResearch(ctx, company)

	case "/clear":
		if err := a.controller.ClearChat(); err != nil {
			return false, err
		}
		fmt.Println("Chat cleared")
		return false, nil

	case "/export":
		path, err := a.controller.ExportTranscript(".")
		if err != nil {
			return false, err
		}
		fmt.Printf("Chat exported to %s\n", path)
		return false, nil

	case "/status":
		state := "Offline"
		if a.online.Load() {
			state = "Online"
		}
		fmt.Printf("API Status: %s\n", state)
		fmt.Printf("User: %s\n", a.owner.UserID)
		fmt.Printf("Model: %s\n", a.controller.Model())
		if id := a.controller.SessionID(); id != "" {
			fmt.Printf("Session: %s (%d messages)\n", id, len(a.controller.Messages()))
		} else {
			fmt.Println("Session: none")
		}
		if a.attached != nil {
			fmt.Printf("Attachment: %s\n", a.attached.Name)
		}
		return false, nil

	case "/help":
		a.printHelp()
		return false, nil

	default:
		return false, fmt.Errorf("unknown command: %s (try /help)", parts[0])
	}
}

func (a *App) runResearch(ctx context.Context, company string) error {
	result, err := a.research.Analyze(ctx, company)
	if result == nil {
		return err
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
	a.printResearch(result)
	return nil
}

func parseFilterArgs(args []string) analytics.Filter {
	var f analytics.Filter
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			f.Search = arg
			continue
		}
		switch key {
		case "region":
			f.Region = value
		case "vertical":
			f.Vertical = value
		case "status":
			f.Status = value
		case "feedback":
			f.Feedback = value
		case "search":
			f.Search = value
		}
	}
	return f
}

func (a *App) printSuggestions() {
	fmt.Println("Try one of:")
	for _, s := range suggestions {
		fmt.Printf("  - %s\n", s)
	}
}

func (a *App) printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  /new-session [title]     - Start a new chat session")
	fmt.Println("  /sessions                - List your sessions")
	fmt.Println("  /load <session-id>       - Load an existing session")
	fmt.Println("  /model <name>            - Select chat model (" + strings.Join(config.Models, "|") + ")")
	fmt.Println("  /stream on|off           - Toggle streamed replies")
	fmt.Println("  /attach <file>           - Attach a PDF, DOCX, or TXT file to the next message")
	fmt.Println("  /detach                  - Remove the pending attachment")
	fmt.Println("  /summarize <file>        - Submit a file for summarization")
	fmt.Println("  /summaries               - Show your stored file summaries")
	fmt.Println("  /analytics [k=v ...]     - Show the analytics dashboard (region=, vertical=, status=, feedback=, search=)")
	fmt.Println("  /export-csv [k=v ...]    - Export filtered analytics to CSV")
	fmt.Println("  /refresh                 - Refetch analytics data now")
	fmt.Println("  /research <company>      - Run company financial research")
	fmt.Println("  /clear                   - Clear the chat transcript")
	fmt.Println("  /export                  - Export the chat transcript to a text file")
	fmt.Println("  /status                  - Show connection and session status")
	fmt.Println("  /quit, /exit             - Exit")
}
