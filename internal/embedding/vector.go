package embedding

import (
	"fmt"
	"math"
	"strings"
)

// L2Normalize scales v to unit length in place and returns it. A zero
// vector is returned unchanged.
func L2Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm > 0 {
		for i := range v {
			v[i] = float32(float64(v[i]) / norm)
		}
	}
	return v
}

// PgvectorString renders a vector as the fixed-precision pgvector text
// literal: bracketed, comma-separated, 8 decimal digits per component.
func PgvectorString(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%.8f", x)
	}
	b.WriteByte(']')
	return b.String()
}
