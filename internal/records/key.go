package records

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the second-resolution creation time embedded in every
// record ID. It sorts lexicographically in chronological order.
const TimestampLayout = "20060102_150405"

const (
	idSeparator = "_"
	recordExt   = ".json"
)

// ValidateOwner rejects owners that cannot be embedded in a record key.
// Owners are otherwise taken verbatim and compared case-sensitively.
func ValidateOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("%w: empty", ErrInvalidOwner)
	}
	if strings.ContainsAny(owner, "/\\\x00") {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidOwner, owner)
	}
	return nil
}

// FormatID builds the record ID for owner at t, truncated to the second in UTC.
func FormatID(owner string, t time.Time) string {
	return owner + idSeparator + t.UTC().Format(TimestampLayout)
}

// ParseID splits id into its owner and creation time. The timestamp is read
// from the right so owners may themselves contain the separator.
func ParseID(id string) (string, time.Time, error) {
	tsLen := len(TimestampLayout)
	if len(id) < tsLen+len(idSeparator)+1 {
		return "", time.Time{}, fmt.Errorf("record id %q too short", id)
	}
	split := len(id) - tsLen - len(idSeparator)
	if id[split:split+len(idSeparator)] != idSeparator {
		return "", time.Time{}, fmt.Errorf("record id %q missing separator", id)
	}
	createdAt, err := time.ParseInLocation(TimestampLayout, id[split+len(idSeparator):], time.UTC)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("record id %q: %w", id, err)
	}
	owner := id[:split]
	if err := ValidateOwner(owner); err != nil {
		return "", time.Time{}, err
	}
	return owner, createdAt, nil
}

// ObjectKey returns the storage key for a record ID.
func ObjectKey(id string) string {
	return id + recordExt
}

// idFromKey reverses ObjectKey, reporting false for keys that do not follow
// the record naming convention.
func idFromKey(key string) (string, string, time.Time, bool) {
	if !strings.HasSuffix(key, recordExt) {
		return "", "", time.Time{}, false
	}
	id := strings.TrimSuffix(key, recordExt)
	owner, createdAt, err := ParseID(id)
	if err != nil {
		return "", "", time.Time{}, false
	}
	return id, owner, createdAt, true
}
