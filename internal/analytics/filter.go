// Package analytics derives filterable views, counts, and chart series from
// the owner's persisted summary records.
package analytics

import (
	"sort"
	"strings"

	"github.com/AdithyaRRb/AI-sales-bot/internal/api"
)

// Filter selects records by exact match on a fixed field set. An empty value
// or "all" leaves that dimension unconstrained. Search is a case-insensitive
// substring match over client and user names.
type Filter struct {
	Search   string
	Region   string
	Vertical string
	Status   string
	Feedback string
}

func wildcard(v string) bool {
	return v == "" || v == "all"
}

// Match reports whether a record satisfies every set predicate.
func (f Filter) Match(rec api.FileSummaryRecord) bool {
	s := rec.Summary
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(s.ClientName), needle) &&
			!strings.Contains(strings.ToLower(s.UserName), needle) {
			return false
		}
	}
	if !wildcard(f.Region) && s.ClientRegion != f.Region {
		return false
	}
	if !wildcard(f.Vertical) && s.Vertical != f.Vertical {
		return false
	}
	if !wildcard(f.Status) && s.ProjectStatus != f.Status {
		return false
	}
	if !wildcard(f.Feedback) && s.Feedback != f.Feedback {
		return false
	}
	return true
}

// Apply returns the matching subset, preserving order.
func (f Filter) Apply(records []api.FileSummaryRecord) []api.FileSummaryRecord {
	out := []api.FileSummaryRecord{}
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Regions returns the distinct client regions, Unknown excluded, sorted.
func Regions(records []api.FileSummaryRecord) []string {
	return distinct(records, func(s api.FileSummary) string { return s.ClientRegion }, true)
}

// Verticals returns the distinct business verticals, Unknown excluded,
// sorted.
func Verticals(records []api.FileSummaryRecord) []string {
	return distinct(records, func(s api.FileSummary) string { return s.Vertical }, true)
}

// Statuses returns the distinct project statuses, sorted.
func Statuses(records []api.FileSummaryRecord) []string {
	return distinct(records, func(s api.FileSummary) string { return s.ProjectStatus }, false)
}

// Feedbacks returns the distinct feedback values, sorted.
func Feedbacks(records []api.FileSummaryRecord) []string {
	return distinct(records, func(s api.FileSummary) string { return s.Feedback }, false)
}

func distinct(records []api.FileSummaryRecord, field func(api.FileSummary) string, dropUnknown bool) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, rec := range records {
		v := field(rec.Summary)
		if v == "" || seen[v] || (dropUnknown && v == "Unknown") {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
