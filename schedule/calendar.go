package schedule

import "time"

// Week is one calendar row, Sunday through Saturday. A zero cell is a day
// outside the month.
type Week [7]int

// MonthGrid lays a month out as week rows, padding the first week with blank
// cells up to the month's first weekday. No calendar state is stored; the
// grid is recomputed from (year, month) on demand.
func MonthGrid(year int, month time.Month) []Week {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday())

	var weeks []Week
	var week Week
	col := offset
	for day := 1; day <= daysInMonth; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = Week{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
