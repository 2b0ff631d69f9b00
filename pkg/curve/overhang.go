package curve

import "math"

// OverhangLimiter shortens facing handles of neighbouring anchors when
// together they reach further than twice the gap between the anchors.
// A disabled limiter leaves the curve untouched.
type OverhangLimiter struct {
	Enabled bool
}

// Fix checks the pairs formed by anchor index and each of its neighbours.
// An offending pair has both facing handles scaled by the same factor
// along their own direction, and each anchor's far handle follows through
// SetLeft/SetRight. Out-of-range indices are ignored.
func (o OverhangLimiter) Fix(l *PointList, index int, ratio float64) bool {
	if !o.Enabled || index < 0 || index >= l.Len() {
		return false
	}
	fixed := false

	if index > 0 {
		me, left := l.At(index), l.At(index-1)
		if s, over := overhangScale(left, me); over {
			me.SetLeft(me.X-(me.X-me.LX)*s, me.Y-(me.Y-me.LY)*s, ratio)
			left.SetRight(left.X+(left.RX-left.X)*s, left.Y+(left.RY-left.Y)*s, ratio)
			fixed = true
		}
	}

	if index < l.Last() {
		me, next := l.At(index), l.At(index+1)
		if s, over := overhangScale(me, next); over {
			me.SetRight(me.X+(me.RX-me.X)*s, me.Y+(me.RY-me.Y)*s, ratio)
			next.SetLeft(next.X-(next.X-next.LX)*s, next.Y-(next.Y-next.LY)*s, ratio)
			fixed = true
		}
	}
	return fixed
}

// Overhang returns the combined x-extent of the facing handles of a and b
// (a left of b) and the most they may reach.
func Overhang(a, b *Anchor) (combined, limit float64) {
	combined = (b.X - b.LX) + (a.RX - a.X)
	limit = math.Abs(b.X-a.X) * 2
	return combined, limit
}

func overhangScale(a, b *Anchor) (float64, bool) {
	combined, limit := Overhang(a, b)
	if combined <= limit || combined <= 0 {
		return 1, false
	}
	return limit / combined, true
}
