package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Cursor is the keyset position of the last row on a page. Ledgers are listed
// newest first with the ledger ID as tie-breaker.
type Cursor struct {
	CreatedAt time.Time
	LedgerID  string
}

// After reports whether a row at (createdAt, ledgerID) belongs on a page that
// follows the cursor.
func (c Cursor) After(createdAt time.Time, ledgerID string) bool {
	if createdAt.Equal(c.CreatedAt) {
		return ledgerID < c.LedgerID
	}
	return createdAt.Before(c.CreatedAt)
}

// EncodeToken creates a base64 encoded token from a row's creation time and ID.
// This is used for consistent pagination across different repositories.
func EncodeToken(createdAt time.Time, ledgerID string) string {
	tokenStr := fmt.Sprintf("%s|%s", createdAt.UTC().Format(timeFormat), ledgerID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	return Cursor{CreatedAt: createdAt, LedgerID: parts[1]}, nil
}
