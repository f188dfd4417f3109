// Package web serves the analytics snapshot to a browser as JSON and CSV.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/AdithyaRRb/AI-sales-bot/internal/analytics"
)

// Server exposes the dashboard over a local HTTP listener.
type Server struct {
	poller *analytics.Poller
	userID string
	logger *slog.Logger
	srv    *http.Server
}

// NewServer builds a dashboard server on addr.
func NewServer(addr string, poller *analytics.Poller, userID string, logger *slog.Logger) *Server {
	s := &Server{poller: poller, userID: userID, logger: logger}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Router assembles the dashboard routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Get("/api/records", s.handleRecords)
	r.Get("/api/metrics", s.handleMetrics)
	r.Get("/api/filters", s.handleFilters)
	r.Get("/api/charts", s.handleCharts)
	r.Get("/export.csv", s.handleExport)
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) {
	go func() {
		s.logger.Info("dashboard listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("dashboard server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("dashboard shutdown failed", "error", err)
		}
	}()
}

func filterFromQuery(r *http.Request) analytics.Filter {
	q := r.URL.Query()
	return analytics.Filter{
		Search:   q.Get("search"),
		Region:   q.Get("region"),
		Vertical: q.Get("vertical"),
		Status:   q.Get("status"),
		Feedback: q.Get("feedback"),
	}
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	records := filterFromQuery(r).Apply(s.poller.Records())
	writeJSON(w, map[string]any{
		"user_id": s.userID,
		"total":   len(records),
		"records": records,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, analytics.Compute(s.poller.Records()))
}

// handleFilters lists the selectable values for each filter dimension, used
// to populate the dashboard dropdowns.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	records := s.poller.Records()
	writeJSON(w, map[string][]string{
		"regions":   analytics.Regions(records),
		"verticals": analytics.Verticals(records),
		"statuses":  analytics.Statuses(records),
		"feedbacks": analytics.Feedbacks(records),
	})
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	records := s.poller.Records()
	writeJSON(w, map[string]analytics.BarSeries{
		"status":   analytics.StatusSeries(records),
		"feedback": analytics.FeedbackSeries(records),
		"region":   analytics.RegionSeries(records),
		"vertical": analytics.VerticalSeries(records),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	records := filterFromQuery(r).Apply(s.poller.Records())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="airon_rush_analytics.csv"`)
	if err := analytics.WriteCSV(w, records); err != nil {
		s.logger.Error("CSV export failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
