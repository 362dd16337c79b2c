package service

import (
	"fmt"
	"strings"
	"time"

	"consistency-tracker/internal/config"
	"consistency-tracker/internal/model"
)

// Clock returns the current time in the tracker's timezone.
type Clock func() time.Time

// SystemClock reads the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// Today is the current calendar day as YYYY-MM-DD.
func (c Clock) Today() string {
	return model.FormatDate(c())
}

// resolveDate validates a YYYY-MM-DD day, defaulting to today when empty.
func (c Clock) resolveDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return c.Today(), nil
	}
	day, err := model.ParseDate(raw, time.UTC)
	if err != nil {
		return "", invalid("date %q must be YYYY-MM-DD", raw)
	}
	return model.FormatDate(day), nil
}

// normalizeClock turns H:MM or HH:MM into zero-padded HH:MM.
func normalizeClock(raw string) (string, error) {
	hour, minute, err := config.ParseClock(raw)
	if err != nil {
		return "", invalid("%v", err)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
