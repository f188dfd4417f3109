package analytics

import (
	"sort"
	"strings"

	"github.com/AdithyaRRb/AI-sales-bot/internal/api"
)

// Metrics are the headline counts and distributions shown on the dashboard.
type Metrics struct {
	TotalFiles      int `json:"total_files"`
	UniqueClients   int `json:"unique_clients"`
	UniqueRegions   int `json:"unique_regions"`
	UniqueVerticals int `json:"unique_verticals"`

	StatusCounts   map[string]int `json:"status_counts"`
	FeedbackCounts map[string]int `json:"feedback_counts"`
	RegionCounts   map[string]int `json:"region_counts"`
	VerticalCounts map[string]int `json:"vertical_counts"`
}

// Compute derives metrics from a record list. Status and feedback keys are
// lowercased; region and vertical keys keep their original casing.
func Compute(records []api.FileSummaryRecord) Metrics {
	m := Metrics{
		TotalFiles:     len(records),
		StatusCounts:   map[string]int{},
		FeedbackCounts: map[string]int{},
		RegionCounts:   map[string]int{},
		VerticalCounts: map[string]int{},
	}

	clients := map[string]bool{}
	regions := map[string]bool{}
	verticals := map[string]bool{}
	for _, rec := range records {
		s := rec.Summary
		clients[s.ClientName] = true
		regions[s.ClientRegion] = true
		verticals[s.Vertical] = true
		m.StatusCounts[strings.ToLower(s.ProjectStatus)]++
		m.FeedbackCounts[strings.ToLower(s.Feedback)]++
		m.RegionCounts[s.ClientRegion]++
		m.VerticalCounts[s.Vertical]++
	}
	m.UniqueClients = len(clients)
	m.UniqueRegions = len(regions)
	m.UniqueVerticals = len(verticals)
	return m
}

// BarSeries is one bar chart: parallel label and value slices.
type BarSeries struct {
	Name   string   `json:"name"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// StatusSeries builds the project-status chart with its fixed axis.
func StatusSeries(records []api.FileSummaryRecord) BarSeries {
	return BarSeries{
		Name:   "Project Status",
		Labels: []string{"Completed", "On-Going", "Pending"},
		Values: []int{
			countStatus(records, "completed"),
			countStatus(records, "on-going"),
			countStatus(records, "pending"),
		},
	}
}

// FeedbackSeries builds the feedback chart with its fixed axis.
func FeedbackSeries(records []api.FileSummaryRecord) BarSeries {
	return BarSeries{
		Name:   "Feedback",
		Labels: []string{"Positive", "Negative", "Neutral"},
		Values: []int{
			countFeedback(records, "Positive"),
			countFeedback(records, "Negative"),
			countFeedback(records, "Neutral"),
		},
	}
}

// RegionSeries builds the client-region chart from observed values.
func RegionSeries(records []api.FileSummaryRecord) BarSeries {
	return countSeries("Client Region", Compute(records).RegionCounts)
}

// VerticalSeries builds the business-vertical chart from observed values.
func VerticalSeries(records []api.FileSummaryRecord) BarSeries {
	return countSeries("Business Vertical", Compute(records).VerticalCounts)
}

func countSeries(name string, counts map[string]int) BarSeries {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	values := make([]int, len(labels))
	for i, label := range labels {
		values[i] = counts[label]
	}
	return BarSeries{Name: name, Labels: labels, Values: values}
}

func countStatus(records []api.FileSummaryRecord, status string) int {
	n := 0
	for _, rec := range records {
		if rec.Summary.ProjectStatus == status {
			n++
		}
	}
	return n
}

func countFeedback(records []api.FileSummaryRecord, feedback string) int {
	n := 0
	for _, rec := range records {
		if rec.Summary.Feedback == feedback {
			n++
		}
	}
	return n
}

// CountEntry is one row of a top-N ranking.
type CountEntry struct {
	Label string
	Count int
}

// TopN ranks a distribution descending by count, ties broken by label.
func TopN(counts map[string]int, n int) []CountEntry {
	entries := make([]CountEntry, 0, len(counts))
	for label, count := range counts {
		entries = append(entries, CountEntry{Label: label, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
