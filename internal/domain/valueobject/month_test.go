package valueobject

import (
	"errors"
	"testing"
	"time"
)

func TestNewMonth(t *testing.T) {
	if _, err := NewMonth(2024, 13); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth, got %v", err)
	}
	if _, err := NewMonth(2024, 0); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth, got %v", err)
	}
	m, err := NewMonth(2024, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.String() != "2024-05" {
		t.Errorf("expected 2024-05, got %s", m)
	}
}

func TestMonth_Bounds(t *testing.T) {
	m := Month{Year: 2024, Month: time.February}
	start, end := m.Bounds()

	if !start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start %v", start)
	}
	if end.Day() != 29 || end.Month() != time.February {
		t.Errorf("expected leap-day end, got %v", end)
	}
}

func TestMonth_Contains(t *testing.T) {
	m := Month{Year: 2024, Month: time.May}
	edt := time.FixedZone("EDT", -4*60*60)

	tests := []struct {
		date     time.Time
		expected bool
	}{
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC), true},
		{time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC), false},
		{time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC), false},
		// 2024-06-01T00:00Z seen from New York.
		{time.Date(2024, 5, 31, 20, 0, 0, 0, edt), false},
		// 2024-05-01T00:00Z seen from New York.
		{time.Date(2024, 4, 30, 20, 0, 0, 0, edt), true},
	}

	for _, tt := range tests {
		if got := m.Contains(tt.date); got != tt.expected {
			t.Errorf("Contains(%v): expected %v, got %v", tt.date, tt.expected, got)
		}
	}
}

func TestMonth_NextPrev(t *testing.T) {
	dec := Month{Year: 2023, Month: time.December}
	if next := dec.Next(); next != (Month{Year: 2024, Month: time.January}) {
		t.Errorf("expected 2024-01, got %s", next)
	}
	jan := Month{Year: 2024, Month: time.January}
	if prev := jan.Prev(); prev != dec {
		t.Errorf("expected 2023-12, got %s", prev)
	}
	if !dec.Before(jan) || !jan.After(dec) {
		t.Error("expected 2023-12 to be before 2024-01")
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Year != 2024 || m.Month != time.June {
		t.Errorf("expected 2024-06, got %s", m)
	}
	if _, err := ParseMonth("June 2024"); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth, got %v", err)
	}
}
