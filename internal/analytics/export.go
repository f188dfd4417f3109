package analytics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AdithyaRRb/AI-sales-bot/internal/api"
)

var csvHeader = []string{
	"File Name", "User Name", "Client Name", "Region", "Vertical",
	"Feedback", "Status", "Summary", "Created At",
}

// WriteCSV writes the fixed header plus one comma-joined row per record.
// Commas inside the narrative summary become semicolons; no other escaping
// is applied. Quotes and newlines inside fields pass through unescaped, a
// deliberate simplification over RFC 4180.
func WriteCSV(w io.Writer, records []api.FileSummaryRecord) error {
	rows := make([]string, 0, len(records)+1)
	rows = append(rows, strings.Join(csvHeader, ","))
	for _, rec := range records {
		s := rec.Summary
		row := []string{
			rec.FileName,
			s.UserName,
			s.ClientName,
			s.ClientRegion,
			s.Vertical,
			s.Feedback,
			s.ProjectStatus,
			strings.ReplaceAll(s.InputSummary, ",", ";"),
			rec.CreatedAt,
		}
		rows = append(rows, strings.Join(row, ","))
	}
	if _, err := io.WriteString(w, strings.Join(rows, "\n")); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// ExportCSV writes the records to a date-stamped CSV file under dir and
// returns its path.
func ExportCSV(dir string, records []api.FileSummaryRecord) (string, error) {
	name := fmt.Sprintf("airon_rush_analytics_%s.csv", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, records); err != nil {
		return "", err
	}
	return path, nil
}
