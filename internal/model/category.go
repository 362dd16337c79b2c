package model

import (
	"errors"
	"fmt"
	"strings"
)

// Category groups tasks and time blocks by area (work, health, study, etc.).
type Category string

const (
	CategoryWork     Category = "work"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
	CategoryPersonal Category = "personal"
	CategoryGeneral  Category = "general"
)

// CategoryInfo is the display data attached to a category.
type CategoryInfo struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
	Color string   `json:"color"`
}

// Categories lists every category in display order.
var Categories = []CategoryInfo{
	{Value: CategoryWork, Label: "Work", Color: "#3b82f6"},
	{Value: CategoryHealth, Label: "Health", Color: "#22c55e"},
	{Value: CategoryLearning, Label: "Learning", Color: "#a855f7"},
	{Value: CategoryPersonal, Label: "Personal", Color: "#f97316"},
	{Value: CategoryGeneral, Label: "General", Color: "#6b7280"},
}

// ParseCategory validates raw input. An empty string yields fallback.
func ParseCategory(raw string, fallback Category) (Category, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return fallback, nil
	}
	for _, info := range Categories {
		if string(info.Value) == value || strings.ToLower(info.Label) == value {
			return info.Value, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// Info returns the label and color for c, falling back to general.
func (c Category) Info() CategoryInfo {
	for _, info := range Categories {
		if info.Value == c {
			return info
		}
	}
	return Categories[len(Categories)-1]
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, info := range Categories {
		if info.Value == c {
			return true
		}
	}
	return false
}

// ErrUnknownCategory is returned when a row with an unlisted category is saved.
var ErrUnknownCategory = errors.New("unknown category")

// checkCategory lets an empty value through so the column default applies.
func checkCategory(c Category) error {
	if c == "" || c.Valid() {
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownCategory, c)
}
