package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidSmoothingWindow indicates a smoothing window that cannot be
// applied to the series: even, larger than the series, or too small for
// the polynomial order.
var ErrInvalidSmoothingWindow = errors.New("metrics: invalid smoothing window")

// SavitzkyGolay smooths values with a fixed-window local polynomial
// regression filter. window must be odd and no longer than the series;
// order must be smaller than window. Interior samples are replaced by the
// centered least-squares polynomial evaluated at the window center; the
// first and last half-windows are filled by evaluating the first and last
// full-window fits at the corresponding offsets, so edges are smoothed
// rather than truncated.
func SavitzkyGolay(values []float64, window, order int) ([]float64, error) {
	n := len(values)
	switch {
	case window < 3 || window%2 == 0:
		return nil, fmt.Errorf("%w: window %d must be odd and >= 3", ErrInvalidSmoothingWindow, window)
	case window > n:
		return nil, fmt.Errorf("%w: window %d exceeds series length %d", ErrInvalidSmoothingWindow, window, n)
	case order < 0 || order >= window:
		return nil, fmt.Errorf("%w: order %d must be in [0, %d)", ErrInvalidSmoothingWindow, order, window)
	}

	half := window / 2

	// Vandermonde design matrix over the window offsets -half..half.
	// It is identical for every window position, so factorize once.
	design := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		z := float64(i - half)
		for j := 0; j <= order; j++ {
			design.Set(i, j, math.Pow(z, float64(j)))
		}
	}

	var qr mat.QR
	qr.Factorize(design)

	fitWindow := func(start int) (*mat.VecDense, error) {
		b := mat.NewVecDense(window, values[start:start+window])
		var beta mat.VecDense
		if err := qr.SolveVecTo(&beta, false, b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSmoothingWindow, err)
		}
		return &beta, nil
	}

	smoothed := make([]float64, n)

	// Interior: centered fit evaluated at offset zero.
	for i := half; i < n-half; i++ {
		beta, err := fitWindow(i - half)
		if err != nil {
			return nil, err
		}
		smoothed[i] = beta.AtVec(0)
	}

	// Leading edge: first full-window fit evaluated at the sample's
	// actual offset within that window.
	beta, err := fitWindow(0)
	if err != nil {
		return nil, err
	}
	for i := 0; i < half; i++ {
		smoothed[i] = polyEval(beta, float64(i-half))
	}

	// Trailing edge: last full-window fit.
	beta, err = fitWindow(n - window)
	if err != nil {
		return nil, err
	}
	for i := n - half; i < n; i++ {
		smoothed[i] = polyEval(beta, float64(i-(n-1-half)))
	}

	return smoothed, nil
}

// polyEval evaluates the fitted polynomial at offset z using Horner's rule.
func polyEval(beta *mat.VecDense, z float64) float64 {
	result := 0.0
	for j := beta.Len() - 1; j >= 0; j-- {
		result = result*z + beta.AtVec(j)
	}
	return result
}
