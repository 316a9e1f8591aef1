package processing

import (
	"slices"
	"strings"

	"github.com/spacesedan/feedsheet/internal/models"
)

// SelectNew returns the records newer than the watermark, oldest first.
// Timestamps are compared as plain strings, which matches chronological
// order only for the fixed width models.TimestampLayout. Records with equal
// timestamps keep their input order. The input slice is not modified.
func SelectNew(records []models.Record, wm models.Watermark) []models.Record {
	selected := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !wm.Valid || r.Timestamp > wm.Timestamp {
			selected = append(selected, r)
		}
	}

	slices.SortStableFunc(selected, func(a, b models.Record) int {
		return strings.Compare(a.Timestamp, b.Timestamp)
	})
	return selected
}

// IsAscending reports whether timestamps never decrease. Appending an
// ascending batch after the watermark keeps the whole sink ascending, which
// is what lets the last row serve as the watermark.
func IsAscending(records []models.Record) bool {
	return slices.IsSortedFunc(records, func(a, b models.Record) int {
		return strings.Compare(a.Timestamp, b.Timestamp)
	})
}
