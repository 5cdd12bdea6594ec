package timeslot

import "time"

// DefaultDuration is the length assumed for a match whose end time is not yet known.
const DefaultDuration = time.Hour

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// New returns the window [start, end).
func New(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// Effective returns the window a match occupies for scheduling purposes.
// A match without a recorded end is assumed to last DefaultDuration.
func Effective(start time.Time, end *time.Time) Window {
	if end != nil {
		return Window{Start: start, End: *end}
	}
	return Window{Start: start, End: start.Add(DefaultDuration)}
}

// Overlaps reports whether the two windows share any instant.
// Windows that only touch at a boundary do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Valid reports whether the window ends strictly after it starts.
func (w Window) Valid() bool {
	return w.End.After(w.Start)
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
