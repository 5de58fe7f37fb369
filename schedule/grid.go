package schedule

import (
	"errors"
	"time"
)

// The daily slot grid is configuration, not derived data: bookings are only
// offered between 18:00 and 22:00 in fixed half-hour slots, 8 per day.
const (
	OpeningTime = "18:00"
	ClosingTime = "22:00"
	SlotMinutes = 30
)

const (
	clockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

var (
	ErrMalformedSlotLabel = errors.New("malformed slot label, expected HH:MM-HH:MM on a half-hour boundary")
	ErrMalformedDate      = errors.New("malformed date, expected YYYY-MM-DD")
	ErrPastDate           = errors.New("date is in the past")
)

// Slot is one bookable half-hour interval of the daily grid.
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (s Slot) Label() string {
	return s.StartTime + "-" + s.EndTime
}

var grid = buildGrid()

func buildGrid() []Slot {
	open, err := time.Parse(clockLayout, OpeningTime)
	if err != nil {
		panic(err)
	}
	closing, err := time.Parse(clockLayout, ClosingTime)
	if err != nil {
		panic(err)
	}

	var slots []Slot
	for t := open; t.Before(closing); t = t.Add(SlotMinutes * time.Minute) {
		slots = append(slots, Slot{
			StartTime: t.Format(clockLayout),
			EndTime:   t.Add(SlotMinutes * time.Minute).Format(clockLayout),
		})
	}
	return slots
}

// Grid returns the full daily slot grid in chronological order. The caller
// owns the returned slice.
func Grid() []Slot {
	out := make([]Slot, len(grid))
	copy(out, grid)
	return out
}

// SplitLabel parses a canonical "HH:MM-HH:MM" slot label into its two
// endpoints.
func SplitLabel(label string) (startTime, endTime string, err error) {
	if len(label) != 11 || label[5] != '-' {
		return "", "", ErrMalformedSlotLabel
	}
	startTime, endTime = label[:5], label[6:]

	start, err := parseClock(startTime)
	if err != nil {
		return "", "", ErrMalformedSlotLabel
	}
	end, err := parseClock(endTime)
	if err != nil {
		return "", "", ErrMalformedSlotLabel
	}
	if !start.Before(end) {
		return "", "", ErrMalformedSlotLabel
	}
	return startTime, endTime, nil
}

func parseClock(value string) (time.Time, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	if t.Minute()%SlotMinutes != 0 {
		return time.Time{}, ErrMalformedSlotLabel
	}
	return t, nil
}

// GridSlot looks up the grid slot with the given start and end times.
func GridSlot(startTime, endTime string) (Slot, bool) {
	for _, s := range grid {
		if s.StartTime == startTime && s.EndTime == endTime {
			return s, true
		}
	}
	return Slot{}, false
}

// ValidateDate checks that date is well-formed and not before today.
// Today itself is accepted.
func ValidateDate(date string, today time.Time) error {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return ErrMalformedDate
	}
	startOfToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, today.Location())
	if d.Before(startOfToday) {
		return ErrPastDate
	}
	return nil
}
