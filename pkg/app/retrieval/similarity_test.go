package retrieval

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		v := make([]float64, 384)
		for j := range v {
			v[j] = r.Float64()*2 - 1
		}
		score, err := CosineSimilarity(v, v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-9)
	}
}

func TestCosineSimilarity_ScaleInvariant(t *testing.T) {
	a := []float64{0.3, -1.2, 4}
	b := []float64{1, 2, 3}
	base, err := CosineSimilarity(a, b)
	require.NoError(t, err)

	scaled := []float64{a[0] * 7.5, a[1] * 7.5, a[2] * 7.5}
	got, err := CosineSimilarity(scaled, b)
	require.NoError(t, err)
	assert.InDelta(t, base, got, 1e-12)
}

func TestCosineSimilarity_EdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float64
		want    float64
		wantErr bool
	}{
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-2, 0}, want: -1},
		{name: "zero magnitude", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
		{name: "empty", a: []float64{}, b: []float64{}, want: 0},
		{name: "dimension mismatch", a: []float64{1, 0}, b: []float64{1, 0, 0}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDimensionMismatch)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
