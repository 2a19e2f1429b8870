package jobs

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts accepted from sheet cells. Serial values come back as
// formatted strings because the store reads with FORMATTED_VALUE.
var sheetDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// notifyDateLayout is what the jobs write back into date cells.
const notifyDateLayout = "01/02/2006"

// headerIndex maps trimmed header cell text to its zero-based column.
func headerIndex(header []interface{}) map[string]int {
	cols := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(fmt.Sprint(cell))
		if name == "" {
			continue
		}
		if _, exists := cols[name]; !exists {
			cols[name] = i
		}
	}
	return cols
}

// cellString returns the trimmed string value of row[idx], tolerating short
// rows the Sheets API returns when trailing cells are empty.
func cellString(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

func parseSheetDate(raw string) (time.Time, error) {
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// sameDay reports whether two instants fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
