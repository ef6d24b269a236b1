package common

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestRandomInRangeBounds(t *testing.T) {
	d, err := NewDelays(2, 5, 42)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v := d.RandomInRange()
		if v < 2 || v > 5 {
			t.Fatalf("RandomInRange: %d outside [2, 5]", v)
		}
		seen[v] = true
	}
	for v := 2; v <= 5; v++ {
		if !seen[v] {
			t.Fatalf("RandomInRange never produced %d in 2000 draws", v)
		}
	}
}

func TestRandomInRangeSingleValue(t *testing.T) {
	d, err := NewDelays(3, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if v := d.RandomInRange(); v != 3 {
			t.Fatalf("expected 3, got %d", v)
		}
	}
}

func TestRandomInRangeSeeded(t *testing.T) {
	a, _ := NewDelays(0, 100, 7)
	b, _ := NewDelays(0, 100, 7)
	for i := 0; i < 50; i++ {
		if x, y := a.RandomInRange(), b.RandomInRange(); x != y {
			t.Fatalf("draw %d: same seed produced %d and %d", i, x, y)
		}
	}
}

func TestRandomInRangeLargeBounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
	}{
		{"zero to max int", 0, math.MaxInt},
		{"top of the range", math.MaxInt - 1, math.MaxInt},
		{"whole int range", math.MinInt, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDelays(tt.min, tt.max, 3)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 100; i++ {
				v := d.RandomInRange()
				if v < tt.min || v > tt.max {
					t.Fatalf("RandomInRange: %d outside [%d, %d]", v, tt.min, tt.max)
				}
			}
		})
	}
}

func TestNewDelaysRejectsInvertedRange(t *testing.T) {
	_, err := NewDelays(5, 2, 1)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("Sleep did not observe cancellation promptly")
	}
}

func TestSleepElapses(t *testing.T) {
	if err := Sleep(context.Background(), 5*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
