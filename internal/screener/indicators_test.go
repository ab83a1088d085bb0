package screener

import (
	"errors"
	"testing"
)

func TestTrailingSMA(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
		want   float64
	}{
		{"exact window", []float64{1, 2, 3}, 3, 2},
		{"trailing only", []float64{100, 100, 1, 2, 3}, 3, 2},
		{"single value", []float64{7}, 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := trailingSMA(tt.values, tt.window)
			if err != nil {
				t.Fatalf("trailingSMA() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("trailingSMA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrailingSMAInsufficientHistory(t *testing.T) {
	_, err := trailingSMA([]float64{1, 2}, 3)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestTrailingSMAInvalidWindow(t *testing.T) {
	if _, err := trailingSMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero window")
	}
}
