package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemdiff/perturbviz/pkg/network"
)

func pathGraph() *network.Graph {
	return network.Build([]network.Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
		{Source: "C", Target: "D"},
	})
}

func starGraph() *network.Graph {
	return network.Build([]network.Edge{
		{Source: "HUB", Target: "L1"},
		{Source: "HUB", Target: "L2"},
		{Source: "HUB", Target: "L3"},
		{Source: "HUB", Target: "L4"},
		{Source: "L1", Target: "L2"},
	})
}

func requireFinite(t *testing.T, pos Positions) {
	t.Helper()
	for name, p := range pos {
		require.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "NaN for %s", name)
		require.False(t, math.IsInf(p.X, 0) || math.IsInf(p.Y, 0), "Inf for %s", name)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Algorithm
	}{
		{"spring", Spring},
		{"kamada_kawai", KamadaKawai},
		{"Kamada-Kawai", KamadaKawai},
		{"circular", Circular},
		{" SPECTRAL ", Spectral},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := Parse("hierarchical")
	assert.Error(t, err)
}

func TestComputeUnknownAlgorithm(t *testing.T) {
	_, _, err := Compute(pathGraph(), Algorithm("force_atlas"), 1)
	assert.Error(t, err)
}

func TestComputeCoversEveryNode(t *testing.T) {
	g := starGraph()
	for _, alg := range Algorithms {
		t.Run(string(alg), func(t *testing.T) {
			pos, res, err := Compute(g, alg, DefaultSeed)
			require.NoError(t, err)
			assert.Equal(t, alg, res.Requested)
			require.Len(t, pos, g.NodeCount())
			for _, n := range g.Nodes() {
				assert.Contains(t, pos, n)
			}
			requireFinite(t, pos)
		})
	}
}

func TestCircularScenario(t *testing.T) {
	g := pathGraph()
	pos, res, err := Compute(g, Circular, 0)
	require.NoError(t, err)
	assert.False(t, res.FellBack)

	seen := map[[2]float64]bool{}
	prev := -1.0
	for _, n := range g.Nodes() {
		p := pos[n]
		assert.InDelta(t, 1.0, math.Hypot(p.X, p.Y), 1e-9, "node %s on unit circle", n)

		key := [2]float64{math.Round(p.X*1e6) / 1e6, math.Round(p.Y*1e6) / 1e6}
		assert.False(t, seen[key], "node %s has a distinct position", n)
		seen[key] = true

		angle := math.Atan2(p.Y, p.X)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		assert.Greater(t, angle, prev, "node %s follows insertion order", n)
		prev = angle
	}
}

func TestSpringIsDeterministic(t *testing.T) {
	g := starGraph()
	a, _, err := Compute(g, Spring, 7)
	require.NoError(t, err)
	b, _, err := Compute(g, Spring, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, _, err := Compute(g, Spring, 8)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "different seeds give different layouts")
}

func TestSpringIsScaledIntoUnitBox(t *testing.T) {
	pos, _, err := Compute(starGraph(), Spring, DefaultSeed)
	require.NoError(t, err)

	lo, hi := pos.Bounds()
	assert.GreaterOrEqual(t, lo.X, -1-1e-9)
	assert.GreaterOrEqual(t, lo.Y, -1-1e-9)
	assert.LessOrEqual(t, hi.X, 1+1e-9)
	assert.LessOrEqual(t, hi.Y, 1+1e-9)
}

func TestSpectralFallsBackOnDisconnectedGraph(t *testing.T) {
	g := network.Build([]network.Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
		{Source: "X", Target: "Y"},
		{Source: "Y", Target: "Z"},
	})

	pos, res, err := Compute(g, Spectral, 3)
	require.NoError(t, err)
	assert.True(t, res.FellBack)
	assert.Equal(t, Spring, res.Used)
	assert.Contains(t, res.Reason, "disconnected")

	want, _, err := Compute(g, Spring, 3)
	require.NoError(t, err)
	assert.Equal(t, want, pos, "fallback uses the same seed")
}

func TestSpectralConnectedGraph(t *testing.T) {
	pos, res, err := Compute(starGraph(), Spectral, 0)
	require.NoError(t, err)
	assert.False(t, res.FellBack, res.Reason)
	assert.Equal(t, Spectral, res.Used)
	requireFinite(t, pos)
}

func TestKamadaKawaiKeepsNeighborsCloser(t *testing.T) {
	g := pathGraph()
	pos, res, err := Compute(g, KamadaKawai, 0)
	require.NoError(t, err)
	require.False(t, res.FellBack, res.Reason)

	dist := func(a, b string) float64 {
		return math.Hypot(pos[a].X-pos[b].X, pos[a].Y-pos[b].Y)
	}
	assert.Less(t, dist("A", "B"), dist("A", "D"))
	assert.Less(t, dist("C", "D"), dist("A", "D"))
}

func TestTinyGraphs(t *testing.T) {
	empty := network.Build(nil)
	single := network.BuildWithNodes(nil, []string{"ONLY"})

	for _, alg := range Algorithms {
		pos, _, err := Compute(empty, alg, 1)
		require.NoError(t, err)
		assert.Empty(t, pos, alg)

		pos, _, err = Compute(single, alg, 1)
		require.NoError(t, err)
		require.Len(t, pos, 1, alg)
		requireFinite(t, pos)
	}
}
