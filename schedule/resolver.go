package schedule

import "errors"

var (
	ErrNoSelection         = errors.New("no slot selected")
	ErrSlotUnavailable     = errors.New("selected slot is no longer available")
	ErrAvailabilityUnknown = errors.New("availability has not been loaded for the selected date")
)

// BookedSlot is the projection of an appointment used for availability
// checks: the day and the slot start time, regardless of who booked it.
type BookedSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
}

// LoadState distinguishes the three ways an availability view can be empty:
// nothing fetched yet, the fetch failed, or the fetch succeeded and every
// slot is taken.
type LoadState int

const (
	StateNotLoaded LoadState = iota
	StateFailed
	StateLoaded
)

// Availability is the derived view for a single date. It is recomputed from
// scratch on every date change or fetch result and never persisted.
type Availability struct {
	Date  string
	State LoadState
	Slots []Slot
}

// NoSlots reports whether the date was loaded successfully and is fully
// booked. Distinct from StateNotLoaded and StateFailed.
func (a Availability) NoSlots() bool {
	return a.State == StateLoaded && len(a.Slots) == 0
}

// ComputeAvailable filters the daily grid down to the slots whose start time
// is not booked on the given date. Pure: the same inputs always produce the
// same output, in grid order.
func ComputeAvailable(date string, booked []BookedSlot) []Slot {
	taken := make(map[string]bool, len(booked))
	for _, b := range booked {
		if b.Date == date {
			taken[b.StartTime] = true
		}
	}

	available := make([]Slot, 0, len(grid))
	for _, s := range grid {
		if !taken[s.StartTime] {
			available = append(available, s)
		}
	}
	return available
}

// ValidateSelection checks a user-chosen slot label against the most recently
// computed available set. It catches empty and malformed selections, and
// selections that fell out of availability, before any network call is made.
// The check is advisory: another client can still win the slot between fetch
// and submit, which the server rejects with a conflict.
func ValidateSelection(label string, available []Slot) (Slot, error) {
	if label == "" {
		return Slot{}, ErrNoSelection
	}
	startTime, endTime, err := SplitLabel(label)
	if err != nil {
		return Slot{}, err
	}
	for _, s := range available {
		if s.StartTime == startTime && s.EndTime == endTime {
			return s, nil
		}
	}
	return Slot{}, ErrSlotUnavailable
}

// Resolver tracks the currently selected date and its availability view.
// Selecting a new date supersedes any in-flight fetch for the previous one:
// results are applied only if they were fetched for the date still selected.
type Resolver struct {
	selectedDate string
	current      Availability
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// SelectDate switches the resolver to a new date and resets the view to
// StateNotLoaded until a fetch result arrives.
func (r *Resolver) SelectDate(date string) {
	r.selectedDate = date
	r.current = Availability{Date: date, State: StateNotLoaded}
}

func (r *Resolver) SelectedDate() string {
	return r.selectedDate
}

// ApplyResult records the outcome of a booked-slots fetch. A result for a
// superseded date is discarded and the method reports false. A failed fetch
// yields an empty StateFailed view, never stale or partial slots.
func (r *Resolver) ApplyResult(date string, booked []BookedSlot, fetchErr error) bool {
	if date != r.selectedDate {
		return false
	}
	if fetchErr != nil {
		r.current = Availability{Date: date, State: StateFailed}
		return true
	}
	r.current = Availability{
		Date:  date,
		State: StateLoaded,
		Slots: ComputeAvailable(date, booked),
	}
	return true
}

func (r *Resolver) Availability() Availability {
	return r.current
}

// ValidateSelection validates a label against the resolver's current view.
// It fails if availability has not been loaded for the selected date.
func (r *Resolver) ValidateSelection(label string) (Slot, error) {
	if r.current.State != StateLoaded {
		return Slot{}, ErrAvailabilityUnknown
	}
	return ValidateSelection(label, r.current.Slots)
}
