package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// Cursor is the opaque pagination state we encode/decode.
// (UpdatedAt, UserID) of the last row served establish a stable position.
type Cursor struct {
	UpdatedAt time.Time
	UserID    string
}

// IsZero reports whether c is the first-page cursor.
func (c Cursor) IsZero() bool {
	return c.UserID == "" && c.UpdatedAt.IsZero()
}

// Encode converts a Cursor into base64url("<RFC3339Nano>|<userID>").
func Encode(c Cursor) string {
	raw := c.UpdatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.UserID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a token produced by Encode. Padded tokens are accepted too.
// Empty token → empty cursor (first page).
func Decode(token string) (Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}

	ts, id, ok := strings.Cut(string(b), "|")
	if !ok || id == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}
	return Cursor{UpdatedAt: t.UTC(), UserID: id}, nil
}

// ClampLimit applies the page size rule: missing, unparsable or < 1 falls
// back to DefaultLimit, anything above MaxLimit is capped.
func ClampLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}
