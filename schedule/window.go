package schedule

import "time"

// Window is a closed time interval. End must be strictly after Start; a
// zero-length or inverted window fails validation.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow builds a validated window.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate checks the end-after-start invariant.
func (w Window) Validate() error {
	if !w.End.After(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Hours returns the window length in fractional hours.
func (w Window) Hours() float64 {
	return w.Duration().Hours()
}

// Contains reports whether other lies entirely inside w. Both endpoints may
// coincide; this is containment, not mere overlap.
func (w Window) Contains(other Window) bool {
	return !w.Start.After(other.Start) && !w.End.Before(other.End)
}
