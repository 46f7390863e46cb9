package domain

import (
	"fmt"
	"strings"
)

// EstimationSize is the size category of a task.
type EstimationSize string

const (
	EstimationL  EstimationSize = "L"
	EstimationM  EstimationSize = "M"
	EstimationS  EstimationSize = "S"
	EstimationXS EstimationSize = "XS"

	DefaultEstimation = EstimationM
)

// Sizes returns every estimation size from largest to smallest.
func Sizes() []EstimationSize {
	return []EstimationSize{EstimationL, EstimationM, EstimationS, EstimationXS}
}

func (e EstimationSize) Valid() bool {
	switch e {
	case EstimationL, EstimationM, EstimationS, EstimationXS:
		return true
	}
	return false
}

// ParseEstimation accepts the size name in any case and surrounding spaces.
func ParseEstimation(s string) (EstimationSize, error) {
	e := EstimationSize(strings.ToUpper(strings.TrimSpace(s)))
	if !e.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEstimation, s)
	}
	return e, nil
}

// Card colours offered by the task form.
const (
	ColorTeal   = "#80CBC4"
	ColorGreen  = "#A5D6A7"
	ColorYellow = "#E6EE9C"
	ColorGrey   = "#e2e8f0"

	DefaultColor = ColorGreen
)

// Palette returns the fixed set of task colours.
func Palette() []string {
	return []string{ColorTeal, ColorGreen, ColorYellow, ColorGrey}
}

// NormalizeColor maps a colour outside the palette to DefaultColor.
func NormalizeColor(c string) string {
	c = strings.TrimSpace(c)
	for _, p := range Palette() {
		if strings.EqualFold(c, p) {
			return p
		}
	}
	return DefaultColor
}

// Task represents a single card on a person's column.
type Task struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Estimation EstimationSize `json:"estimation"`
	Color      string         `json:"color"`
}

// NewTask validates the fields of a task and returns it with a trimmed title
// and a palette colour.
func NewTask(id, title string, estimation EstimationSize, color string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	if !estimation.Valid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidEstimation, estimation)
	}
	return Task{ID: id, Title: title, Estimation: estimation, Color: NormalizeColor(color)}, nil
}
