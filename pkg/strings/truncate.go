package strings

import (
	"strings"
	"unicode/utf8"
)

// MaxLabelLen is the number of runes kept from a widget label recorded in the
// item registry. Labels are debug-only, so longer ones are cut silently.
const MaxLabelLen = 32

// DefaultSummaryMaxLen is the default width of failure summaries in tables.
const DefaultSummaryMaxLen = 60

// MinTruncateLen is the minimum maxLen value for TruncateSummary.
// Values smaller than this would not leave room for meaningful content plus "...".
const MinTruncateLen = 4

// TruncateLabel cuts a label to at most MaxLabelLen runes without adding an
// ellipsis.
func TruncateLabel(label string) string {
	if utf8.RuneCountInString(label) <= MaxLabelLen {
		return label
	}
	return string([]rune(label)[:MaxLabelLen])
}

// VisibleLabel returns the part of a label that a host displays: everything
// before the first "##". The remainder only feeds the identifier hash.
func VisibleLabel(label string) string {
	if i := strings.Index(label, "##"); i >= 0 {
		return label[:i]
	}
	return label
}

// TruncateSummary squeezes a test log line or failure message into a single
// line of at most maxLen runes, adding "..." when it had to cut.
//
// Whitespace runs (including newlines) collapse to one space. maxLen below
// MinTruncateLen is clamped.
func TruncateSummary(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
