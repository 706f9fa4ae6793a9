package ui

import "testing"

func TestBar(t *testing.T) {
	tests := []struct {
		name         string
		value, total int
		width        int
		want         string
	}{
		{"empty", 0, 10, 4, "[----]"},
		{"half", 5, 10, 4, "[##--]"},
		{"full", 10, 10, 4, "[####]"},
		{"overflow", 20, 10, 4, "[####]"},
		{"negative", -3, 10, 4, "[----]"},
		{"zero total", 0, 0, 4, "[----]"},
		{"narrow", 1, 1, 1, "[###]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bar(tt.value, tt.total, tt.width); got != tt.want {
				t.Errorf("Bar(%d, %d, %d) = %q, want %q", tt.value, tt.total, tt.width, got, tt.want)
			}
		})
	}
}

func TestQuestTypeIcon(t *testing.T) {
	if QuestTypeIcon("daily") != IconLoop || QuestTypeIcon("side") != IconQuest {
		t.Error("unexpected quest type icon")
	}
}
