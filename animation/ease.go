package animation

// EaseEdge is the fixed sample point the eased approach evaluates the
// smoothstep at.
const EaseEdge = 0.0001

// Smoothstep is the cubic Hermite step: 0 at or below lo, 1 at or above
// hi, 3t²-2t³ in between.
func Smoothstep(x, lo, hi float64) float64 {
	if x <= lo {
		return 0
	}
	if x >= hi {
		return 1
	}
	t := (x - lo) / (hi - lo)
	return t * t * (3 - 2*t)
}

// Ease returns the next value of current as it approaches target: the
// smoothstep between the two, lower first, sampled at EaseEdge. A value
// already at its target stays there.
func Ease(current, target float64) float64 {
	if current == target {
		return current
	}
	if current > target {
		return Smoothstep(EaseEdge, target, current)
	}
	return Smoothstep(EaseEdge, current, target)
}
