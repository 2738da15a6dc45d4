package transcript

import (
	"strconv"
	"strings"
)

const blockSeparator = "\n\n"

// Render writes each segment as a numbered block:
//
//	1
//	00:00:00,000 --> 00:00:01,000
//	[Bob]: hi
//
// Blocks are separated by one blank line with no trailing separator.
func Render(segments []Segment) string {
	var b strings.Builder
	for i, s := range segments {
		if i > 0 {
			b.WriteString(blockSeparator)
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		b.WriteString(FormatTimestamp(s.StartTime))
		b.WriteString(" --> ")
		b.WriteString(FormatTimestamp(s.EndTime))
		b.WriteByte('\n')
		b.WriteString("[")
		b.WriteString(s.Speaker)
		b.WriteString("]: ")
		b.WriteString(s.Text)
	}
	return b.String()
}
