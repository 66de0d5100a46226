package rag

import (
	"math"

	"github.com/fwojciec/webqa"
)

// CosineDistance returns 1 - cos(a, b). Lower is more similar.
// A zero vector has no direction and is treated as orthogonal (distance 1).
func CosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, webqa.Errorf(webqa.EEMBED, "dimension mismatch: %d != %d", len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1, nil
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb)), nil
}
