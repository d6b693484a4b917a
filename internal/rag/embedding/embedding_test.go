package embedding

import (
	"math"
	"testing"
)

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestNormalize(t *testing.T) {
	t.Run("unit length output", func(t *testing.T) {
		got := Normalize([]float32{3, 4})
		if m := magnitude(got); math.Abs(m-1) > 1e-6 {
			t.Errorf("magnitude got %f, want 1", m)
		}
		if math.Abs(float64(got[0])-0.6) > 1e-6 || math.Abs(float64(got[1])-0.8) > 1e-6 {
			t.Errorf("direction changed: %v", got)
		}
	})

	t.Run("already normalized is stable", func(t *testing.T) {
		got := Normalize(Normalize([]float32{1, 2, 2}))
		if m := magnitude(got); math.Abs(m-1) > 1e-6 {
			t.Errorf("magnitude got %f after double normalize", m)
		}
	})

	t.Run("zero vector passes through", func(t *testing.T) {
		got := Normalize([]float32{0, 0, 0})
		for i, v := range got {
			if v != 0 {
				t.Errorf("index %d got %f, want 0", i, v)
			}
		}
	})
}
