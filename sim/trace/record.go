// Package trace provides allocation-decision recording for policy analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// AllocationRecord captures a single patient-to-donor allocation.
type AllocationRecord struct {
	Trial       int
	Patient     int
	Donor       int
	Efficacious bool      // true if the chosen donor is efficacious
	Success     bool      // patient response
	Weights     []float64 // allocator's per-donor weights at choice time (may be nil)
}

// Regret returns the best weight minus the chosen donor's weight; 0 when the
// record carries no weights or the chosen donor was the best.
func (r AllocationRecord) Regret() float64 {
	if r.Donor < 0 || r.Donor >= len(r.Weights) {
		return 0
	}
	best := r.Weights[r.Donor]
	for _, w := range r.Weights {
		if w > best {
			best = w
		}
	}
	return best - r.Weights[r.Donor]
}
