// Package integrate evaluates definite integrals over the unit cube [0,1]³ with an
// error estimate. The quadrature backend is pluggable behind CubeIntegrator.
package integrate

// Integrand is a function on [0,1]³ in curried form: Integrand(x, y) returns the
// slice function of z. Backends call the outer function once per (x, y) pair, so
// integrands should hoist work that does not depend on z there.
type Integrand func(x, y float64) func(z float64) float64

// Result is an integral estimate.
type Result struct {
	Value       float64 // integral estimate
	Error       float64 // absolute error estimate (>= 0)
	Evaluations int     // number of z-slice evaluations
}

// CubeIntegrator integrates a bounded real-valued function over [0,1]³.
type CubeIntegrator interface {
	// Integrate returns the integral of f. degree is an upper bound on the
	// polynomial degree of f in any single coordinate, or -1 when f is not a
	// polynomial; backends may use it to pick their resolution.
	Integrate(f Integrand, degree int) (Result, error)
}
