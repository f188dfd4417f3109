package analytics

import (
	"reflect"
	"testing"

	"github.com/AdithyaRRb/AI-sales-bot/internal/api"
)

func record(client, user, region, vertical, status, feedback string) api.FileSummaryRecord {
	return api.FileSummaryRecord{
		FileName: client + ".pdf",
		Summary: api.FileSummary{
			UserName:      user,
			ClientName:    client,
			ClientRegion:  region,
			Vertical:      vertical,
			ProjectStatus: status,
			Feedback:      feedback,
		},
	}
}

func sampleRecords() []api.FileSummaryRecord {
	return []api.FileSummaryRecord{
		record("Acme", "alice", "EMEA", "Retail", "completed", "Positive"),
		record("Globex", "bob", "APAC", "Finance", "on-going", "Negative"),
		record("Initech", "alice", "EMEA", "Finance", "pending", "Neutral"),
		record("Umbrella", "carol", "AMER", "Unknown", "completed", "Positive"),
	}
}

func TestFilterConjunction(t *testing.T) {
	records := sampleRecords()

	got := Filter{Region: "EMEA", Status: "completed"}.Apply(records)
	if len(got) != 1 || got[0].Summary.ClientName != "Acme" {
		t.Fatalf("region+status filter: %+v", got)
	}

	got = Filter{Region: "EMEA", Status: "on-going"}.Apply(records)
	if len(got) != 0 {
		t.Fatalf("contradictory filter must match nothing: %+v", got)
	}
}

func TestFilterWildcards(t *testing.T) {
	records := sampleRecords()

	for _, f := range []Filter{
		{},
		{Region: "all", Vertical: "all", Status: "all", Feedback: "all"},
	} {
		if got := f.Apply(records); len(got) != len(records) {
			t.Fatalf("wildcard filter dropped records: %d of %d", len(got), len(records))
		}
	}
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	records := sampleRecords()

	got := Filter{Search: "GLOB"}.Apply(records)
	if len(got) != 1 || got[0].Summary.ClientName != "Globex" {
		t.Fatalf("client-name search: %+v", got)
	}

	// Search also covers user names.
	got = Filter{Search: "alice"}.Apply(records)
	if len(got) != 2 {
		t.Fatalf("user-name search matched %d records, want 2", len(got))
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	records := sampleRecords()
	got := Filter{Feedback: "Positive"}.Apply(records)
	if len(got) != 2 || got[0].Summary.ClientName != "Acme" || got[1].Summary.ClientName != "Umbrella" {
		t.Fatalf("filtered order changed: %+v", got)
	}
}

func TestDistinctValues(t *testing.T) {
	records := sampleRecords()

	if got := Regions(records); !reflect.DeepEqual(got, []string{"AMER", "APAC", "EMEA"}) {
		t.Fatalf("regions: %v", got)
	}
	// Unknown is dropped from the vertical dropdown.
	if got := Verticals(records); !reflect.DeepEqual(got, []string{"Finance", "Retail"}) {
		t.Fatalf("verticals: %v", got)
	}
	if got := Statuses(records); !reflect.DeepEqual(got, []string{"completed", "on-going", "pending"}) {
		t.Fatalf("statuses: %v", got)
	}
	if got := Feedbacks(records); !reflect.DeepEqual(got, []string{"Negative", "Neutral", "Positive"}) {
		t.Fatalf("feedbacks: %v", got)
	}
}
