package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of every calendar date in the system.
const DateLayout = "2006-01-02"

const displayLayout = "02/01/2006"

// ParseDate parses a YYYY-MM-DD calendar date as midnight of the local day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrParse, s)
	}
	return t, nil
}

// IsCalendarDate reports whether s is a well-formed YYYY-MM-DD date.
func IsCalendarDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// FormatDateForDisplay renders a YYYY-MM-DD date as DD/MM/YYYY. Unparsable
// input is returned unchanged.
func FormatDateForDisplay(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format(displayLayout)
}

// Today returns the current local calendar day as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(DateLayout)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}

// window is an inclusive interval with optional bounds.
type window struct {
	start, end *time.Time
}

func parseWindow(start, end string) (window, error) {
	var w window
	if strings.TrimSpace(start) != "" {
		t, err := ParseDate(start)
		if err != nil {
			return w, err
		}
		w.start = &t
	}
	if strings.TrimSpace(end) != "" {
		t, err := ParseDate(end)
		if err != nil {
			return w, err
		}
		e := endOfDay(t)
		w.end = &e
	}
	return w, nil
}

func (w window) open() bool {
	return w.start == nil && w.end == nil
}

func (w window) contains(t time.Time) bool {
	if w.start != nil && t.Before(*w.start) {
		return false
	}
	if w.end != nil && t.After(*w.end) {
		return false
	}
	return true
}

// InRange reports whether a trip falls inside the [start, end] window, compared
// by calendar day and inclusive on both bounds. Blank start and end match
// everything. When returnDate is given the trip matches if either leg is inside
// the window. Malformed input yields false.
func InRange(date, start, end, returnDate string) bool {
	ok, _ := InRangeChecked(date, start, end, returnDate)
	return ok
}

// InRangeChecked is InRange that also reports the ErrParse behind a false result.
func InRangeChecked(date, start, end, returnDate string) (bool, error) {
	if strings.TrimSpace(date) == "" {
		return false, nil
	}
	w, err := parseWindow(start, end)
	if err != nil {
		return false, err
	}
	if w.open() {
		return true, nil
	}

	outbound, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	if w.contains(outbound) {
		return true, nil
	}

	if strings.TrimSpace(returnDate) == "" {
		return false, nil
	}
	ret, err := ParseDate(returnDate)
	if err != nil {
		return false, err
	}
	return w.contains(ret), nil
}
