package curve

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoAnchors(t *testing.T, x1 float64) *PointList {
	t.Helper()
	l, err := PointListFromAnchors(300, []Anchor{NewAnchor(0, 0, 25), NewAnchor(x1, 0, 25)})
	require.NoError(t, err)
	return l
}

func xs(l *PointList) []float64 {
	out := make([]float64, l.Len())
	for i := range out {
		out[i] = l.At(i).X
	}
	return out
}

func TestNewPointListSeeds(t *testing.T) {
	l := NewPointList(300)

	require.Equal(t, 2, l.Len())
	assert.Equal(t, 0.0, l.At(0).X)
	assert.InDelta(t, 274.6, l.At(1).X, 1e-9)
	assert.Equal(t, 0.125, l.At(1).Y)
	assert.InDelta(t, 25, l.At(1).X-l.At(1).LX, 1e-9, "default handle is radius/12")
}

func TestInsertBetweenUsesHalfDistance(t *testing.T) {
	l := twoAnchors(t, 100)

	idx := l.Insert(50, 0, 0.003)

	require.Equal(t, 1, idx)
	assert.Equal(t, []float64{0, 50, 100}, xs(l))

	me := l.At(1)
	assert.InDelta(t, 25, me.X-me.LX, 1e-9, "left handle")
	assert.InDelta(t, 25, me.RX-me.X, 1e-9, "right handle")
	assert.InDelta(t, 25, l.At(0).RX, 1e-9, "left neighbour's right handle meets it")
	assert.InDelta(t, 75, l.At(2).LX, 1e-9, "right neighbour's left handle meets it")
}

func TestInsertLastGetsFixedRightHandle(t *testing.T) {
	l := twoAnchors(t, 100)

	idx := l.Insert(160, 0.05, 0.003)

	require.Equal(t, 2, idx)
	me := l.At(2)
	assert.InDelta(t, 30, me.X-me.LX, 1e-9)
	assert.InDelta(t, LastHandleOffset, me.RX-me.X, 1e-9)
}

func TestInsertClampsAndAvoidsCollisions(t *testing.T) {
	l := twoAnchors(t, 100)

	idx := l.Insert(-20, 0.1, 0.003)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, MinHandleOffset, l.At(1).X, 1e-12)
	assert.Equal(t, 0.0, l.At(0).X, "anchor 0 stays pinned")

	idx = l.Insert(100, 0.1, 0.003)
	assert.Equal(t, 3, idx)
	assert.InDelta(t, 100+MinHandleOffset, l.At(3).X, 1e-12)
}

func TestInsertKeepsOrder(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	l := NewPointList(300)

	for i := 0; i < 50; i++ {
		l.Insert(r.Float64()*320-10, r.Float64()-0.5, 0.003)
		l.Sort()

		got := xs(l)
		require.Equal(t, 0.0, got[0], "anchor 0 at x=0 after insert %d", i)
		for j := 1; j < len(got); j++ {
			require.LessOrEqual(t, got[j-1], got[j], "insert %d: xs %v", i, got)
		}
	}
}

func TestRemoveAt(t *testing.T) {
	l := twoAnchors(t, 100)
	l.Insert(50, 0, 0.003)
	before := *l.At(0)

	assert.False(t, l.RemoveAt(0), "anchor 0 is permanent")
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, before.Pos(), l.At(0).Pos())

	assert.False(t, l.RemoveAt(3), "out of range")
	assert.True(t, l.RemoveAt(1))
	assert.Equal(t, []float64{0, 100}, xs(l))

	assert.False(t, l.RemoveAt(1), "two anchors is the minimum")
	assert.Equal(t, 2, l.Len())
}

func TestFindNear(t *testing.T) {
	v := bareView(t)
	l := twoAnchors(t, 100) // device anchors at (0,200) and (200,200)

	assert.Equal(t, 0, l.FindNear(v, Point{3, 195}, DefaultHitTolerance))
	assert.Equal(t, 1, l.FindNear(v, Point{207, 207}, DefaultHitTolerance))
	assert.Equal(t, -1, l.FindNear(v, Point{208, 200}, DefaultHitTolerance), "box is open")
	assert.Equal(t, -1, l.FindNear(v, Point{100, 200}, DefaultHitTolerance))
}

func TestFindHandleNear(t *testing.T) {
	v := bareView(t)
	l := twoAnchors(t, 100) // handles at x = -25, 25, 75, 125 -> device -50, 50, 150, 250

	i, side, ok := l.FindHandleNear(v, Point{50, 200}, DefaultHitTolerance)
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, SideRight, side)

	i, side, ok = l.FindHandleNear(v, Point{152, 198}, DefaultHitTolerance)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, SideLeft, side)

	_, _, ok = l.FindHandleNear(v, Point{-50, 200}, DefaultHitTolerance)
	assert.False(t, ok, "anchor 0's left handle is never hit")
}

func TestPointListFromAnchorsValidation(t *testing.T) {
	tests := []struct {
		name    string
		anchors []Anchor
	}{
		{"too few", []Anchor{NewAnchor(0, 0, 10)}},
		{"not pinned", []Anchor{NewAnchor(5, 0, 10), NewAnchor(50, 0, 10)}},
		{"unsorted", []Anchor{NewAnchor(0, 0, 10), NewAnchor(50, 0, 10), NewAnchor(20, 0, 10)}},
		{"collapsed handle", []Anchor{NewAnchor(0, 0, 10), {X: 50, LX: 50, RX: 60}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PointListFromAnchors(300, tt.anchors)
			assert.ErrorIs(t, err, ErrInvalidCurve)
		})
	}
}


func TestPointListFromAnchorsFlattensFirstTangent(t *testing.T) {
	first := Anchor{X: 0, Y: 0.01, LX: -10, LY: -0.19, RX: 10, RY: 0.21}

	l, err := PointListFromAnchors(300, []Anchor{first, NewAnchor(50, 0, 10)})
	require.NoError(t, err)

	a := l.At(0)
	assert.Equal(t, 0.01, a.LY)
	assert.Equal(t, 0.01, a.RY)
	assert.Equal(t, -10.0, a.LX, "handle lengths are kept")
	assert.Equal(t, 10.0, a.RX)
}

func TestNewPointListSmallMirror(t *testing.T) {
	for _, radius := range []float64{0.05, 0.5, 1, 1.2} {
		l := NewPointList(radius)

		_, err := PointListFromAnchors(radius, l.Anchors())
		assert.NoError(t, err, "radius %v", radius)
		for i := 0; i < l.Len(); i++ {
			a := l.At(i)
			assert.GreaterOrEqual(t, a.X-a.LX, MinHandleOffset-1e-9, "radius %v anchor %d", radius, i)
			assert.GreaterOrEqual(t, a.RX-a.X, MinHandleOffset-1e-9, "radius %v anchor %d", radius, i)
		}
	}
}
