package palette

import (
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

func TestStandardColor(t *testing.T) {
	seen := make(map[string]int)
	for seq := 0; seq < 20; seq++ {
		c := StandardColor(seq)
		if _, err := colorful.Hex(c); err != nil {
			t.Errorf("StandardColor(%d) = %q is not a hex color: %v", seq, c, err)
		}
		if c != StandardColor(seq) {
			t.Errorf("StandardColor(%d) is not stable", seq)
		}
		if prev, ok := seen[c]; ok {
			t.Errorf("StandardColor(%d) repeats the color of %d", seq, prev)
		}
		seen[c] = seq
	}
}

func TestEngine(t *testing.T) {
	e := NewEngine([]Rule{
		{Keyword: "Race", Color: "#d03030"},
		{Keyword: "interval", Color: "#e08020"},
		{Keyword: "broken", Color: "not-a-color"},
		{Keyword: "", Color: "#ffffff"},
	})

	tests := []struct {
		value string
		want  string
	}{
		{"race", "#d03030"},
		{"Spring RACE day", "#d03030"},
		{"VO2 intervals", "#e08020"},
		{"broken chain", DefaultColor},
		{"endurance", DefaultColor},
		{"", DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := e.ColorFor(tt.value); got != tt.want {
				t.Errorf("ColorFor(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestEngine_FirstRuleWins(t *testing.T) {
	e := NewEngine([]Rule{
		{Keyword: "race", Color: "#d03030"},
		{Keyword: "race pace", Color: "#3030d0"},
	})

	if got := e.ColorFor("race pace intervals"); got != "#d03030" {
		t.Errorf("ColorFor = %q, want the first matching rule", got)
	}
}
