package timecode

import (
	"errors"
	"testing"

	"github.com/bjarlestam/credit-scout/internal/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"simple", "05:00", 300, false},
		{"zero", "00:00", 0, false},
		{"long feature", "125:30", 7530, false},
		{"surrounding whitespace", " 01:09 ", 69, false},
		{"single field", "300", 0, true},
		{"three fields", "01:02:03", 0, true},
		{"non-numeric minutes", "aa:10", 0, true},
		{"non-numeric seconds", "10:bb", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if !errors.Is(err, ErrInvalidFormat) {
					t.Fatalf("expected ErrInvalidFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := map[int]string{
		65:   "01:05",
		59:   "00:59",
		0:    "00:00",
		3300: "55:00",
		7530: "125:30",
	}
	for in, want := range tests {
		if got := Format(in); got != want {
			t.Fatalf("Format(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestReconcileOutro_RoundTrip(t *testing.T) {
	out, err := ReconcileOutro(3600, 600, types.Detection{
		Timestamp:  "05:00",
		Confidence: 1.0,
		Cost:       0.12,
		TokensUsed: 4200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.AbsoluteSeconds != 3300 {
		t.Fatalf("absolute seconds = %d, want 3300", out.AbsoluteSeconds)
	}
	if out.Timestamp != "55:00" {
		t.Fatalf("absolute timestamp = %q, want 55:00", out.Timestamp)
	}
	if out.RelativeTimestamp != "05:00" {
		t.Fatalf("relative timestamp must be preserved, got %q", out.RelativeTimestamp)
	}
	if out.Cost != 0.12 || out.TokensUsed != 4200 || out.Confidence != 1.0 {
		t.Fatalf("detection metadata must be carried through: %+v", out)
	}
}

func TestReconcileOutro_SegmentLongerThanVideo(t *testing.T) {
	// The encoder clamps the extraction window to the start of file, so
	// the segment start clamps to zero here.
	out, err := ReconcileOutro(300, 600, types.Detection{Timestamp: "02:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.AbsoluteSeconds != 120 {
		t.Fatalf("absolute seconds = %d, want 120", out.AbsoluteSeconds)
	}
	if out.Timestamp != "02:00" {
		t.Fatalf("absolute timestamp = %q, want 02:00", out.Timestamp)
	}
}

func TestReconcileOutro_InvalidRelative(t *testing.T) {
	_, err := ReconcileOutro(3600, 600, types.Detection{Timestamp: "somewhere near the end"})
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}
