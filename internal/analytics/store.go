package analytics

import (
	"database/sql"
	"fmt"

	"github.com/AdithyaRRb/AI-sales-bot/internal/api"
)

// Store mirrors the last fetched records into the local SQLite database so
// the dashboard can render the previous snapshot while the backend is
// unreachable.
type Store struct {
	db *sql.DB
}

// NewStore wraps an initialized database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Replace swaps the cached snapshot for a user with the given records.
func (s *Store) Replace(userID string, records []api.FileSummaryRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM summary_records WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	for _, rec := range records {
		_, err := tx.Exec(
			`INSERT INTO summary_records
			(user_id, file_name, file_size, content_type, user_name, client_name,
			 client_region, vertical, feedback, project_status, input_summary, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, rec.FileName, rec.FileSize, rec.ContentType,
			rec.Summary.UserName, rec.Summary.ClientName, rec.Summary.ClientRegion,
			rec.Summary.Vertical, rec.Summary.Feedback, rec.Summary.ProjectStatus,
			rec.Summary.InputSummary, rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load returns the cached snapshot for a user.
func (s *Store) Load(userID string) ([]api.FileSummaryRecord, error) {
	rows, err := s.db.Query(
		`SELECT file_name, file_size, content_type, user_name, client_name,
		 client_region, vertical, feedback, project_status, input_summary, created_at
		 FROM summary_records WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	defer rows.Close()

	var records []api.FileSummaryRecord
	for rows.Next() {
		rec := api.FileSummaryRecord{UserID: userID}
		if err := rows.Scan(
			&rec.FileName, &rec.FileSize, &rec.ContentType,
			&rec.Summary.UserName, &rec.Summary.ClientName, &rec.Summary.ClientRegion,
			&rec.Summary.Vertical, &rec.Summary.Feedback, &rec.Summary.ProjectStatus,
			&rec.Summary.InputSummary, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
