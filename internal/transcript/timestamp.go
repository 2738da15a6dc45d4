package transcript

import (
	"fmt"
	"math"
)

// FormatTimestamp converts a non-negative offset in seconds to HH:MM:SS,mmm.
// The offset is first resolved to whole microseconds, then truncated to
// milliseconds, so 3661.2505 renders as 01:01:01,250. Negative offsets
// render as zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	micros := int64(math.Round(seconds * 1e6))
	millis := micros / 1000

	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	secs := millis / 1000
	millis -= secs * 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
