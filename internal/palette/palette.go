// Package palette assigns display colors to rides and intervals
package palette

import (
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// goldenAngle spreads successive hues so neighbouring sequence numbers
// never share a color.
const goldenAngle = 137.50776405

// StandardColor returns the color for an interval sequence number as a hex
// string. The same sequence number always gets the same color.
func StandardColor(seq int) string {
	if seq < 0 {
		seq = -seq
	}
	hue := math.Mod(float64(seq)*goldenAngle, 360)
	return colorful.Hsv(hue, 0.65, 0.85).Hex()
}

// Rule maps a metadata keyword to a color
type Rule struct {
	Keyword string
	Color   string // hex, e.g. "#d04040"
}

// Engine picks a ride color from the value of its color field
type Engine struct {
	rules    []Rule
	fallback string
}

// DefaultColor is used when no rule matches
const DefaultColor = "#010101"

// NewEngine builds a color engine. Rules with unparsable colors are ignored.
func NewEngine(rules []Rule) *Engine {
	e := &Engine{fallback: DefaultColor}
	for _, r := range rules {
		if r.Keyword == "" {
			continue
		}
		c, err := colorful.Hex(r.Color)
		if err != nil {
			continue
		}
		e.rules = append(e.rules, Rule{Keyword: strings.ToLower(r.Keyword), Color: c.Hex()})
	}
	return e
}

// ColorFor returns the color of the first rule whose keyword appears in
// value, case-insensitively.
func (e *Engine) ColorFor(value string) string {
	v := strings.ToLower(value)
	for _, r := range e.rules {
		if strings.Contains(v, r.Keyword) {
			return r.Color
		}
	}
	return e.fallback
}
