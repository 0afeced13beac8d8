package metrics

import (
	"errors"
	"math"
	"testing"
)

// TestSavitzkyGolayWindowValidation verifies the window and order
// preconditions
func TestSavitzkyGolayWindowValidation(t *testing.T) {
	values := make([]float64, 20)

	cases := []struct {
		name   string
		window int
		order  int
	}{
		{"even window", 4, 2},
		{"window too small", 1, 0},
		{"window exceeds series", 21, 2},
		{"order not below window", 5, 5},
		{"negative order", 5, -1},
	}

	for _, tc := range cases {
		if _, err := SavitzkyGolay(values, tc.window, tc.order); !errors.Is(err, ErrInvalidSmoothingWindow) {
			t.Errorf("%s: expected ErrInvalidSmoothingWindow, got %v", tc.name, err)
		}
	}
}

// TestSavitzkyGolayConstant verifies a constant series is a fixed point
// of the filter
func TestSavitzkyGolayConstant(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 7.5
	}

	smoothed, err := SavitzkyGolay(values, 7, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, v := range smoothed {
		if math.Abs(v-7.5) > 1e-9 {
			t.Errorf("Index %d: expected 7.5, got %f", i, v)
		}
	}
}

// TestSavitzkyGolayPolynomialInvariance verifies that a polynomial of the
// filter order passes through unchanged, including at the edges, since
// the local least-squares fit reproduces it exactly
func TestSavitzkyGolayPolynomialInvariance(t *testing.T) {
	cubic := func(x float64) float64 {
		return 0.5*x*x*x - 2*x*x + 3*x - 1
	}

	values := make([]float64, 25)
	for i := range values {
		values[i] = cubic(float64(i))
	}

	smoothed, err := SavitzkyGolay(values, 7, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, v := range smoothed {
		if math.Abs(v-values[i]) > 1e-6 {
			t.Errorf("Index %d: expected %f, got %f", i, values[i], v)
		}
	}
}

// TestSavitzkyGolaySmoothsNoise verifies the filter attenuates
// alternating noise around a flat baseline
func TestSavitzkyGolaySmoothsNoise(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 10
		if i%2 == 0 {
			values[i] += 1
		} else {
			values[i] -= 1
		}
	}

	smoothed, err := SavitzkyGolay(values, 9, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Interior samples should deviate from the baseline far less than
	// the raw +-1 noise
	for i := 8; i < 32; i++ {
		if math.Abs(smoothed[i]-10) > 0.6 {
			t.Errorf("Index %d: residual noise %f too large", i, math.Abs(smoothed[i]-10))
		}
	}
}

// TestSavitzkyGolayWindowEqualsLength verifies the boundary case where
// the window spans the whole series
func TestSavitzkyGolayWindowEqualsLength(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	smoothed, err := SavitzkyGolay(values, 5, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// A linear fit over a linear series reproduces it
	for i, v := range smoothed {
		if math.Abs(v-values[i]) > 1e-9 {
			t.Errorf("Index %d: expected %f, got %f", i, values[i], v)
		}
	}
}
