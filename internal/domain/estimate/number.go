package estimate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NumberPrefix is the per-month prefix of estimate numbers, e.g. "EST-202406-".
func NumberPrefix(t time.Time) string {
	return fmt.Sprintf("EST-%04d%02d-", t.Year(), int(t.Month()))
}

// FormatNumber builds EST-YYYYMM-NNNN from the month and its sequence.
func FormatNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("%s%04d", NumberPrefix(t), seq)
}

// NextSequence returns the sequence that follows last, the highest number
// already issued in t's month. An empty last starts the month at 1.
func NextSequence(t time.Time, last string) (int64, error) {
	if last == "" {
		return 1, nil
	}
	prefix := NumberPrefix(t)
	if !strings.HasPrefix(last, prefix) {
		return 0, fmt.Errorf("estimate number %q is not in %s", last, prefix)
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(last, prefix), 10, 64)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("estimate number %q has no sequence", last)
	}
	return seq + 1, nil
}

// DefaultExpiry is how long a new estimate stays valid.
const DefaultExpiry = 30 * 24 * time.Hour
