package particles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProximityFactor(t *testing.T) {
	assert.Equal(t, 1.0, ProximityFactor(0, 200))
	assert.Equal(t, 0.5, ProximityFactor(100, 200))
	assert.Equal(t, 0.0, ProximityFactor(200, 200))
	assert.Equal(t, 0.0, ProximityFactor(350, 200))
	assert.Equal(t, 0.0, ProximityFactor(10, 0))
}

func TestReflectAxis(t *testing.T) {
	assert.Equal(t, -1.0, ReflectAxis(100, -1, 1000))
	assert.Equal(t, 2.0, ReflectAxis(0, -2, 1000))
	assert.Equal(t, -3.0, ReflectAxis(999, 3, 1000))
	assert.Equal(t, 1.0, ReflectAxis(999, 1, 1000), "landing exactly on the edge stays in bounds")
}

func TestLinkOpacityDecreasesWithDistance(t *testing.T) {
	assert.Equal(t, LinkBaseOpacity, LinkOpacity(0, 150))
	prev := LinkOpacity(0, 150)
	for d := 1.0; d < 150; d++ {
		cur := LinkOpacity(d, 150)
		assert.Less(t, cur, prev, "distance %v", d)
		prev = cur
	}
	assert.InDelta(t, 0, LinkOpacity(149.999, 150), 1e-4)
	assert.Equal(t, 0.0, LinkOpacity(150, 150))
}

func TestPairwiseLinksThresholdIsStrict(t *testing.T) {
	ps := []Particle{
		{Pos: Vec2{0, 0}},
		{Pos: Vec2{149.999, 0}},
		{Pos: Vec2{0, 150}},
	}
	links, err := PairwiseLinks{}.FindLinks(ps, 150, nil)
	assert.NoError(t, err)
	assert.Equal(t, []Link{{A: 0, B: 1, Dist: 149.999}}, links)
}

func TestDebouncerKeepsOnlyLastTrigger(t *testing.T) {
	d := NewDebouncer(250 * time.Millisecond)
	t0 := time.Unix(0, 0)
	assert.False(t, d.Ready(t0))

	for i := 0; i < 5; i++ {
		d.Trigger(t0.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	assert.True(t, d.Pending())
	assert.False(t, d.Ready(t0.Add(600*time.Millisecond)))
	assert.True(t, d.Ready(t0.Add(650*time.Millisecond)))
	assert.False(t, d.Pending())
	assert.False(t, d.Ready(t0.Add(time.Second)))
}

func TestWithAlphaClamps(t *testing.T) {
	assert.Equal(t, uint8(255), withAlpha(PrimaryColor, 1.2).A)
	assert.Equal(t, uint8(0), withAlpha(PrimaryColor, -1).A)
	assert.Equal(t, uint8(26), withAlpha(PrimaryColor, 0.1).A)
}
