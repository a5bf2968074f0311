package extract

import (
	"strings"
	"testing"
)

// TestClipNameDeterministic verifies that the same input always produces the same name
func TestClipNameDeterministic(t *testing.T) {
	name1 := ClipName("dQw4w9WgXcQ", 10, 20)
	name2 := ClipName("dQw4w9WgXcQ", 10, 20)

	if name1 != name2 {
		t.Errorf("Name mismatch: first=%s, second=%s", name1, name2)
	}
	if !strings.HasSuffix(name1, ".mp4") {
		t.Errorf("Name should end in .mp4: got %s", name1)
	}
	if len(name1) != 12+len(".mp4") {
		t.Errorf("Invalid name length: got %d, want %d", len(name1), 12+len(".mp4"))
	}
}

// TestClipNameTrailingZeros verifies that 10, 10.0 and 10.00 map to the same artifact
func TestClipNameTrailingZeros(t *testing.T) {
	base := ClipName("abc", 10, 20)

	variants := []struct {
		name  string
		start float64
		end   float64
	}{
		{name: "integral floats", start: 10.0, end: 20.0},
		{name: "explicit zero fraction", start: 10.00, end: 20.00},
	}

	for _, tc := range variants {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClipName("abc", tc.start, tc.end); got != base {
				t.Errorf("Expected same artifact name: got %s, want %s", got, base)
			}
		})
	}
}

// TestClipNameUniqueness verifies that different inputs produce different names
func TestClipNameUniqueness(t *testing.T) {
	name1 := ClipName("abc", 10, 20)
	name2 := ClipName("abc", 10, 21)
	name3 := ClipName("abd", 10, 20)
	name4 := ClipName("abc", 10.5, 20)

	if name1 == name2 {
		t.Errorf("Different end should produce different names: %s == %s", name1, name2)
	}
	if name1 == name3 {
		t.Errorf("Different asset should produce different names: %s == %s", name1, name3)
	}
	if name1 == name4 {
		t.Errorf("Fractional start should produce a different name: %s == %s", name1, name4)
	}
}

func TestFormatSeconds(t *testing.T) {
	testCases := []struct {
		value float64
		want  string
	}{
		{value: 10, want: "10"},
		{value: 10.0, want: "10"},
		{value: 10.5, want: "10.5"},
		{value: 0, want: "0"},
		{value: 0.25, want: "0.25"},
	}

	for _, tc := range testCases {
		if got := formatSeconds(tc.value); got != tc.want {
			t.Errorf("formatSeconds(%v) = %s, want %s", tc.value, got, tc.want)
		}
	}
}
