package colormap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/network"
)

func TestDomain(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		min, max float64
	}{
		{"empty", nil, -1, 1},
		{"within unit", []float64{0.2, -0.5}, -1, 1},
		{"positive only", []float64{2.5, 0.5}, -1, 2.5},
		{"both sides", []float64{-3, 4}, -3, 4},
		{"nan ignored", []float64{math.NaN(), -2}, -2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := Domain(tt.values)
			assert.Equal(t, tt.min, lo)
			assert.Equal(t, tt.max, hi)
		})
	}
}

func TestColorIsCentredOnZero(t *testing.T) {
	for _, dom := range [][2]float64{{-1, 1}, {-1, 4}, {-6, 2}} {
		assert.Equal(t, "#f7f7f7", Color(0, dom[0], dom[1]).Hex(), "domain %v", dom)
	}
}

func TestColorEnds(t *testing.T) {
	assert.Equal(t, "#053061", Color(-3, -3, 4).Hex())
	assert.Equal(t, "#67001f", Color(4, -3, 4).Hex())
	assert.Equal(t, "#67001f", Color(100, -3, 4).Hex(), "clamped above")
	assert.Equal(t, "#053061", Color(-100, -3, 4).Hex(), "clamped below")
}

func TestColorDirection(t *testing.T) {
	up := Color(2, -1, 3)
	assert.Greater(t, up.R, up.B, "positive is red")

	down := Color(-0.8, -1, 3)
	assert.Greater(t, down.B, down.R, "negative is blue")
}

func TestColorNaNIsNeutral(t *testing.T) {
	assert.Equal(t, "#f7f7f7", Color(math.NaN(), -1, 1).Hex())
}

func TestScaleSamples(t *testing.T) {
	s := NewScale([]float64{-2, 2})
	samples := s.Samples(5)
	assert.Len(t, samples, 5)
	assert.Equal(t, "#053061", samples[0].Hex())
	assert.Equal(t, "#f7f7f7", samples[2].Hex())
	assert.Equal(t, "#67001f", samples[4].Hex())
}

func TestForCategory(t *testing.T) {
	g := network.Build([]network.Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}})
	cats, folds := annotate.Classify(g, annotate.NewGeneSet("A", "C"), annotate.ExpressionTable{
		{Gene: "A", Log2FC: 2.5},
		{Gene: "B", Log2FC: 0.1},
	})

	s, ok := ForCategory(g, cats, folds, annotate.Perturbed)
	assert.True(t, ok)
	assert.Equal(t, Scale{Min: -1, Max: 2.5}, s)

	_, ok = ForCategory(g, cats, folds, annotate.Down)
	assert.False(t, ok, "no members means flat colour")
}

func TestFlat(t *testing.T) {
	assert.Equal(t, "#800080", Flat(annotate.Perturbed).Hex())
	assert.Equal(t, "#ff0000", Flat(annotate.Up).Hex())
	assert.Equal(t, "#0000ff", Flat(annotate.Down).Hex())
	assert.Equal(t, "#d3d3d3", Flat(annotate.Other).Hex())
}
