package embedding

import (
	"math"
	"testing"
)

func TestNormalizeVector(t *testing.T) {
	v := normalizeVector([]float32{3, 4})

	var magnitude float64
	for _, x := range v {
		magnitude += float64(x) * float64(x)
	}
	magnitude = math.Sqrt(magnitude)

	if math.Abs(magnitude-1.0) > 1e-6 {
		t.Errorf("magnitude = %f, want 1.0", magnitude)
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("normalized = %v, want [0.6 0.8]", v)
	}
}

func TestNormalizeVectorZero(t *testing.T) {
	v := normalizeVector([]float32{0, 0, 0})
	for i, x := range v {
		if x != 0 {
			t.Errorf("v[%d] = %f, want 0", i, x)
		}
	}
}
