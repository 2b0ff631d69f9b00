package curve

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRatio = 0.003

// collinear builds an anchor whose handles reach lx mm left and rx mm right
// along an isotropic slope m.
func collinear(x, y, lx, rx, m float64) Anchor {
	return Anchor{
		X: x, Y: y,
		LX: x - lx, LY: y - lx*m*testRatio,
		RX: x + rx, RY: y + rx*m*testRatio,
	}
}

func TestOverhangBoundary(t *testing.T) {
	// Anchors 100 mm apart may reach 200 mm together.
	tests := []struct {
		reach     float64 // each facing handle's x-extent
		wantFixed bool
	}{
		{90, false},
		{95, false},
		{99, false},
		{100, false},
		{110, true},
	}

	for _, tt := range tests {
		l, err := PointListFromAnchors(300, []Anchor{
			NewAnchor(0, 0, 10),
			collinear(100, 0.05, 10, tt.reach, 0.4),
			collinear(200, 0.1, tt.reach, 10, -0.2),
		})
		require.NoError(t, err)
		before := l.Anchors()

		fixed := OverhangLimiter{Enabled: true}.Fix(l, 2, testRatio)

		assert.Equal(t, tt.wantFixed, fixed, "reach %v", tt.reach)
		combined, limit := Overhang(l.At(1), l.At(2))
		assert.Equal(t, 200.0, limit)
		if tt.wantFixed {
			assert.InDelta(t, 200, combined, 1e-9, "reach %v", tt.reach)
		} else {
			assert.Empty(t, cmp.Diff(before, l.Anchors(), approx), "reach %v", tt.reach)
		}
	}
}

func TestOverhangKeepsSlope(t *testing.T) {
	l, err := PointListFromAnchors(300, []Anchor{
		NewAnchor(0, 0, 10),
		collinear(100, 0.05, 10, 130, 0.4),
		collinear(200, 0.1, 120, 10, -0.2),
	})
	require.NoError(t, err)

	require.True(t, OverhangLimiter{Enabled: true}.Fix(l, 1, testRatio))

	me, next := l.At(1), l.At(2)
	assert.InDelta(t, 130*200/250.0, me.RX-me.X, 1e-9)
	assert.InDelta(t, 120*200/250.0, next.X-next.LX, 1e-9)

	dx, dy := Isotropic(me.RX-me.X, me.RY-me.Y, testRatio)
	assert.InDelta(t, 0.4, dy/dx, 1e-9)
	dx, dy = Isotropic(next.X-next.LX, next.Y-next.LY, testRatio)
	assert.InDelta(t, -0.2, dy/dx, 1e-9)

	// Far handles keep their length.
	assert.InDelta(t, 10, me.X-me.LX, 1e-9)
	assert.InDelta(t, 10, next.RX-next.X, 1e-9)
}

func TestOverhangDisabled(t *testing.T) {
	l, err := PointListFromAnchors(300, []Anchor{
		NewAnchor(0, 0, 10),
		collinear(100, 0, 10, 150, 0),
		collinear(200, 0, 150, 10, 0),
	})
	require.NoError(t, err)
	before := l.Anchors()

	for i := -1; i <= l.Len(); i++ {
		assert.False(t, OverhangLimiter{}.Fix(l, i, testRatio))
	}
	assert.Empty(t, cmp.Diff(before, l.Anchors(), approx))
}

func TestOverhangOutOfRange(t *testing.T) {
	l := NewPointList(300)
	lim := OverhangLimiter{Enabled: true}
	assert.False(t, lim.Fix(l, -1, testRatio))
	assert.False(t, lim.Fix(l, l.Len(), testRatio))
}

func TestOverhangRandomCurves(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	lim := OverhangLimiter{Enabled: true}

	for iter := 0; iter < 200; iter++ {
		n := 2 + r.Intn(6)
		anchors := []Anchor{collinear(0, 0, 10, 1+r.Float64()*60, 0)}
		x := 0.0
		for i := 1; i < n; i++ {
			x += 10 + r.Float64()*50
			m := r.Float64()*4 - 2
			anchors = append(anchors, collinear(x, r.Float64()-0.5, 1+r.Float64()*60, 1+r.Float64()*60, m))
		}
		l, err := PointListFromAnchors(300, anchors)
		require.NoError(t, err)

		idx := r.Intn(n)
		lim.Fix(l, idx, testRatio)

		for _, pair := range [][2]int{{idx - 1, idx}, {idx, idx + 1}} {
			if pair[0] < 0 || pair[1] >= l.Len() {
				continue
			}
			combined, limit := Overhang(l.At(pair[0]), l.At(pair[1]))
			require.LessOrEqual(t, combined, limit+1e-9, "iter %d pair %v", iter, pair)
		}
		for i := 0; i < l.Len(); i++ {
			a := l.At(i)
			assert.Equal(t, anchors[i].Pos(), a.Pos(), "Fix never moves anchors")
			ldx, ldy := Isotropic(a.X-a.LX, a.Y-a.LY, testRatio)
			rdx, rdy := Isotropic(a.RX-a.X, a.RY-a.Y, testRatio)
			require.InDelta(t, ldy/ldx, rdy/rdx, 1e-6, "iter %d anchor %d handles not collinear", iter, i)
		}
	}
}
