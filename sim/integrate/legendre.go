package integrate

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/integrate/quad"
)

// DefaultMaxOrder caps the per-axis Gauss-Legendre order.
const DefaultMaxOrder = 512

// GaussLegendre is a tensor-product Gauss-Legendre rule. An n-point rule is exact
// for polynomials of degree 2n-1 per axis, so for a polynomial integrand with a
// known degree bound the result is exact up to rounding. The error estimate is the
// difference between the order-n and order-(n+1) rules.
//
// Node tables are computed once per order and shared; GaussLegendre is safe for
// concurrent use.
type GaussLegendre struct {
	// MinOrder is the smallest per-axis order used (default 8).
	MinOrder int
	// MaxOrder caps the per-axis order (default DefaultMaxOrder). Integrands with
	// unknown degree are evaluated at MaxOrder.
	MaxOrder int

	mu    sync.Mutex
	rules map[int]rule
}

type rule struct {
	x, w []float64
}

// NewGaussLegendre returns a GaussLegendre backend with default orders.
func NewGaussLegendre() *GaussLegendre {
	return &GaussLegendre{MinOrder: 8, MaxOrder: DefaultMaxOrder}
}

// OrderFor returns the per-axis order used for an integrand of the given degree.
func (g *GaussLegendre) OrderFor(degree int) int {
	minOrder, maxOrder := g.MinOrder, g.MaxOrder
	if minOrder <= 0 {
		minOrder = 8
	}
	if maxOrder <= 0 {
		maxOrder = DefaultMaxOrder
	}
	if degree < 0 {
		return maxOrder
	}
	n := degree/2 + 1
	return min(max(n, minOrder), maxOrder)
}

// Integrate implements CubeIntegrator.
func (g *GaussLegendre) Integrate(f Integrand, degree int) (Result, error) {
	n := g.OrderFor(degree)
	coarse := g.integrateOrder(f, n)
	fine := g.integrateOrder(f, n+1)
	if math.IsNaN(fine) || math.IsInf(fine, 0) {
		return Result{}, fmt.Errorf("gauss-legendre order %d: non-finite integral %v", n+1, fine)
	}
	return Result{
		Value:       fine,
		Error:       math.Abs(fine - coarse),
		Evaluations: n*n*n + (n+1)*(n+1)*(n+1),
	}, nil
}

func (g *GaussLegendre) integrateOrder(f Integrand, n int) float64 {
	r := g.rule(n)
	total := 0.0
	for i, x := range r.x {
		for j, y := range r.x {
			slice := f(x, y)
			inner := 0.0
			for k, z := range r.x {
				inner += r.w[k] * slice(z)
			}
			total += r.w[i] * r.w[j] * inner
		}
	}
	return total
}

// rule returns the n-point rule mapped onto [0, 1]. Rules from gonum that fail
// exactnessError are rebuilt by Newton iteration.
func (g *GaussLegendre) rule(n int) rule {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rules == nil {
		g.rules = make(map[int]rule)
	}
	if r, ok := g.rules[n]; ok {
		return r
	}
	r := rule{x: make([]float64, n), w: make([]float64, n)}
	quad.Legendre{}.FixedLocations(r.x, r.w, 0, 1)
	if exactnessError(r) > ruleTolerance {
		logrus.Debugf("gauss-legendre order %d: rebuilding inexact node table", n)
		r = newtonRule(n)
	}
	g.rules[n] = r
	return r
}

// ruleTolerance bounds the relative error of a rule on its exactness checks.
const ruleTolerance = 1e-12

// exactnessError returns the larger relative error of r on the constant 1 and on
// x^(2n-1), the highest degree an n-point rule integrates exactly over [0, 1].
func exactnessError(r rule) float64 {
	n := len(r.x)
	sum, top := 0.0, 0.0
	for i, x := range r.x {
		sum += r.w[i]
		top += r.w[i] * math.Pow(x, float64(2*n-1))
	}
	want := 1.0 / float64(2*n)
	return math.Max(math.Abs(sum-1), math.Abs(top-want)/want)
}

// newtonRule computes the n-point rule on [0, 1] from the roots of the Legendre
// polynomial P_n, found by Newton iteration from Chebyshev-like initial guesses.
func newtonRule(n int) rule {
	r := rule{x: make([]float64, n), w: make([]float64, n)}
	for i := 0; i < (n+1)/2; i++ {
		t := math.Cos(math.Pi * (float64(i) + 0.75) / (float64(n) + 0.5))
		var dp float64
		for iter := 0; iter < 100; iter++ {
			var p float64
			p, dp = legendre(n, t)
			dt := p / dp
			t -= dt
			if math.Abs(dt) < 1e-16 {
				break
			}
		}
		_, dp = legendre(n, t)
		w := 1 / ((1 - t*t) * dp * dp)
		// roots are symmetric about 0; map t ∈ [-1, 1] onto [0, 1]
		r.x[i], r.w[i] = 0.5*(1-t), w
		r.x[n-1-i], r.w[n-1-i] = 0.5*(1+t), w
	}
	return r
}

// legendre evaluates P_n and its derivative at t ∈ (-1, 1).
func legendre(n int, t float64) (p, dp float64) {
	p0, p1 := 1.0, t
	if n == 0 {
		return 1, 0
	}
	for k := 2; k <= n; k++ {
		p0, p1 = p1, (float64(2*k-1)*t*p1-float64(k-1)*p0)/float64(k)
	}
	dp = float64(n) * (t*p1 - p0) / (t*t - 1)
	return p1, dp
}
