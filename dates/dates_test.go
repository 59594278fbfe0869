package dates

import (
	"testing"
	"time"
)

func TestParse_Layouts(t *testing.T) {
	p := NewParser()
	now := time.Date(2025, 5, 1, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		expr string
		want time.Time
	}{
		{"10/05/2025", time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)},
		{"2/3/2025", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"2025-05-10", time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)},
		{"10-05-2025", time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := p.Parse(tt.expr, now)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.expr, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestParse_Relative(t *testing.T) {
	p := NewParser()
	now := time.Date(2025, 5, 1, 15, 0, 0, 0, time.UTC)

	got, err := p.Parse("amanhã", now)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("amanhã = %v, want %v", got, want)
	}
}

func TestParse_Unparsable(t *testing.T) {
	p := NewParser()
	now := time.Now()

	for _, expr := range []string{"", "   ", "qualquer coisa sem data"} {
		if _, err := p.Parse(expr, now); err != ErrUnparsable {
			t.Errorf("Parse(%q) err = %v, want ErrUnparsable", expr, err)
		}
	}
}
