package dispatch

import (
	"fmt"
	"time"
)

// DateLayout is the date-only wire format used across the store.
const DateLayout = "2006-01-02"

// WeekWindow is the Sunday-anchored 7-day span currently displayed. It is
// derived, never persisted.
type WeekWindow [7]string

// Start returns the window's Sunday.
func (w WeekWindow) Start() string { return w[0] }

// End returns the window's Saturday.
func (w WeekWindow) End() string { return w[6] }

// Contains reports whether the date falls inside the window.
func (w WeekWindow) Contains(date string) bool {
	for _, d := range w {
		if d == date {
			return true
		}
	}
	return false
}

// WeekOf returns the Sunday-anchored week containing pivot. Every pivot
// within the same week yields the same window.
func WeekOf(pivot string) (WeekWindow, error) {
	t, err := time.Parse(DateLayout, pivot)
	if err != nil {
		return WeekWindow{}, fmt.Errorf("invalid pivot date %q: %w", pivot, err)
	}

	sunday := t.AddDate(0, 0, -int(t.Weekday()))

	var w WeekWindow
	for i := range w {
		w[i] = sunday.AddDate(0, 0, i).Format(DateLayout)
	}
	return w, nil
}

// Navigate shifts the pivot by exactly seven days. Direction is -1 or +1;
// there are no bounds in either direction.
func Navigate(pivot string, direction int) (string, error) {
	t, err := time.Parse(DateLayout, pivot)
	if err != nil {
		return "", fmt.Errorf("invalid pivot date %q: %w", pivot, err)
	}
	return t.AddDate(0, 0, 7*direction).Format(DateLayout), nil
}
