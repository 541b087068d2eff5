package sqlite

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// timeFormat keeps sub-second precision so stored timestamps round-trip.
const timeFormat = time.RFC3339Nano

// parseTime parses a stored timestamp.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseTime(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(timeFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// hashContent computes the xxHash of content as a hex string.
func hashContent(content []byte) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64(content))
	return hex.EncodeToString(b)
}
