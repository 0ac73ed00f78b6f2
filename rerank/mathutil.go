package rerank

import "math"

// dot is the cosine similarity of two unit vectors, taken over the shorter
// length.
func dot(a, b []float32) float32 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	var d float64
	for i := 0; i < n; i++ {
		d += float64(a[i]) * float64(b[i])
	}
	return float32(d)
}

// clamp01 bounds x to [0,1]; NaN maps to 0.
func clamp01(x float32) float32 {
	if math.IsNaN(float64(x)) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
