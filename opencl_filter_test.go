package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"particlefield/internal/particles"
)

// deviceDistances mirrors the pair_dist kernel in float32.
func deviceDistances(ps []particles.Particle, limit float32) []float32 {
	n := len(ps)
	out := make([]float32, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = -1
			if j <= i {
				continue
			}
			dx := float32(ps[i].Pos.X) - float32(ps[j].Pos.X)
			dy := float32(ps[i].Pos.Y) - float32(ps[j].Pos.Y)
			if d := float32(math.Sqrt(float64(dx*dx + dy*dy))); d < limit {
				out[i*n+j] = d
			}
		}
	}
	return out
}

func TestDeviceLinksKeepPairsJustUnderThreshold(t *testing.T) {
	const threshold = 150.0
	// 149.999999 rounds to 150 in float32.
	ps := []particles.Particle{
		{Pos: particles.Vec2{X: 0, Y: 0}},
		{Pos: particles.Vec2{X: 149.999999, Y: 0}},
		{Pos: particles.Vec2{X: 0, Y: 150}},
		{Pos: particles.Vec2{X: 500, Y: 500}},
	}
	require.Equal(t, float32(threshold), float32(ps[1].Pos.X))

	links := collectDeviceLinks(ps, deviceDistances(ps, devicePrefilter(threshold)), threshold, nil)
	cpu, err := particles.PairwiseLinks{}.FindLinks(ps, threshold, nil)
	require.NoError(t, err)

	assert.Equal(t, cpu, links)
	require.Len(t, links, 1)
	assert.Equal(t, 0, links[0].A)
	assert.Equal(t, 1, links[0].B)
}

func TestDevicePrefilterIsLooser(t *testing.T) {
	for _, threshold := range []float64{1, 150, 1e4} {
		assert.Greater(t, float64(devicePrefilter(threshold)), threshold)
	}
}
