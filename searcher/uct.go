package searcher

import "math"

type uct struct {
	c   float64
	lnN float64
}

func newUCT(c float64, parentVisits int) *uct {
	if parentVisits < 0 {
		panic("N cannot be negative")
	}
	return &uct{c: c, lnN: math.Log(float64(parentVisits) + 1)}
}

// evaluate returns q + c*sqrt(ln(N+1)/n), or +Inf for an unvisited child.
func (u uct) evaluate(q float64, n int) float64 {
	if n == 0 { // Prioritize unexplored nodes
		return math.Inf(1)
	}
	return q + u.c*math.Sqrt(u.lnN/float64(n))
}
