package domain

import (
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestClipRangeValidate(t *testing.T) {
	testCases := []struct {
		name    string
		clip    ClipRange
		wantErr bool
	}{
		{name: "valid", clip: ClipRange{Start: floatPtr(0), End: floatPtr(5)}, wantErr: false},
		{name: "fractional bounds", clip: ClipRange{Start: floatPtr(1.25), End: floatPtr(2.5)}, wantErr: false},
		{name: "missing start", clip: ClipRange{End: floatPtr(5)}, wantErr: true},
		{name: "missing end", clip: ClipRange{Start: floatPtr(0)}, wantErr: true},
		{name: "negative start", clip: ClipRange{Start: floatPtr(-1), End: floatPtr(5)}, wantErr: true},
		{name: "end equals start", clip: ClipRange{Start: floatPtr(5), End: floatPtr(5)}, wantErr: true},
		{name: "end before start", clip: ClipRange{Start: floatPtr(5), End: floatPtr(3)}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.clip.Validate()
			if tc.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestJobStatusIsTerminal(t *testing.T) {
	if JobStatusPending.IsTerminal() || JobStatusProcessing.IsTerminal() {
		t.Error("Active statuses must not be terminal")
	}
	if !JobStatusFinished.IsTerminal() || !JobStatusFailed.IsTerminal() {
		t.Error("Finished and failed must be terminal")
	}
}

func TestClipRangesRoundTrip(t *testing.T) {
	ranges := ClipRanges{
		{Start: floatPtr(0), End: floatPtr(5)},
		{Start: nil, End: floatPtr(9)},
	}

	value, err := ranges.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var decoded ClipRanges
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("Expected 2 ranges, got %d", len(decoded))
	}
	if decoded[0].Start == nil || *decoded[0].Start != 0 {
		t.Errorf("First range not round-tripped: %+v", decoded[0])
	}
	if decoded[1].Start != nil {
		t.Errorf("Nil start should survive the round trip: %+v", decoded[1])
	}
}
