// Package identity provides the process-wide owner identity shared by the
// chat, analytics, and dashboard views so they all address the same backend
// records.
package identity

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AdithyaRRb/AI-sales-bot/internal/api"
)

// storageKey mirrors the browser local-storage key the records were
// originally filed under.
const storageKey = "chat_user_id"

// Identity is the owner context injected into every view.
type Identity struct {
	UserID string
}

// UserInfo returns the profile fields sent on session creation.
func (id Identity) UserInfo() api.UserInfo {
	return api.UserInfo{
		CognitoID: id.UserID,
		Name:      "Streamlit User",
		UserName:  "streamlit_user",
		UserEmail: "user@streamlit.com",
		Role:      "tester",
	}
}

// LoadOrCreate reads the stored owner id, creating and persisting one on
// first run. Repeat calls return the same identity.
func LoadOrCreate(db *sql.DB) (Identity, error) {
	var userID string
	err := db.QueryRow("SELECT user_id FROM identity WHERE key = ?", storageKey).Scan(&userID)
	switch {
	case err == nil:
		return Identity{UserID: userID}, nil
	case err != sql.ErrNoRows:
		return Identity{}, fmt.Errorf("failed to read identity: %w", err)
	}

	userID = newUserID()
	_, err = db.Exec(
		"INSERT INTO identity (key, user_id, created_at) VALUES (?, ?, ?)",
		storageKey, userID, time.Now(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to store identity: %w", err)
	}
	return Identity{UserID: userID}, nil
}

// newUserID generates an opaque owner id in the user_xxxxxxxx form the
// backend expects.
func newUserID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "user_" + suffix
}
