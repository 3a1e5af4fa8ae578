package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "ledger-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(cursor.CreatedAt), "Created at time should match after decode")
	assert.Equal(t, "ledger-42", cursor.LedgerID)

	// Non-UTC input is normalised
	local := createdAt.In(time.FixedZone("IST", 5*3600+1800))
	cursor, err = DecodeToken(EncodeToken(local, "x"))
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(cursor.CreatedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("notadate|ledger-1")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestCursorAfter(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := Cursor{CreatedAt: at, LedgerID: "m"}

	assert.True(t, c.After(at.Add(-time.Second), "z"), "older rows follow")
	assert.False(t, c.After(at.Add(time.Second), "a"), "newer rows precede")
	assert.True(t, c.After(at, "a"), "same instant, smaller ID follows")
	assert.False(t, c.After(at, "m"), "the cursor row itself is excluded")
	assert.False(t, c.After(at, "z"))
}
