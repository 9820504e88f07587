package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fmt-sim/fmt-sim/sim/trace"
)

// TrialConfig groups the per-trial simulation parameters.
type TrialConfig struct {
	Patients        int     // patients enrolled per trial (>= 0)
	Donors          int     // donors used from each pool; 0 = the whole pool
	PlaceboRate     float64 // response probability for inefficacious donors and placebo
	EfficaciousRate float64 // response probability for efficacious donors
}

// Validate checks ranges that do not depend on a particular donor pool.
func (c TrialConfig) Validate() error {
	if c.Patients < 0 {
		return fmt.Errorf("patients must be non-negative, got %d", c.Patients)
	}
	if c.Donors < 0 {
		return fmt.Errorf("donors must be non-negative, got %d", c.Donors)
	}
	if c.PlaceboRate < 0 || c.PlaceboRate > 1 {
		return fmt.Errorf("placebo rate must be in [0, 1], got %f", c.PlaceboRate)
	}
	if c.EfficaciousRate < 0 || c.EfficaciousRate > 1 {
		return fmt.Errorf("efficacious rate must be in [0, 1], got %f", c.EfficaciousRate)
	}
	return nil
}

// ResponseRate returns the success probability for a donor of quality q.
func (c TrialConfig) ResponseRate(q Quality) float64 {
	if q == Efficacious {
		return c.EfficaciousRate
	}
	return c.PlaceboRate
}

// ActiveDonors returns the donors a trial will draw from, or ErrDonorCount when
// the configuration asks for more donors than the pool holds.
func (c TrialConfig) ActiveDonors(qualities DonorQualities) (DonorQualities, error) {
	if c.Donors > len(qualities) {
		return nil, fmt.Errorf("%w: requested %d, pool %q has %d", ErrDonorCount, c.Donors, qualities.String(), len(qualities))
	}
	if c.Donors == 0 {
		return qualities, nil
	}
	return qualities[:c.Donors], nil
}

// RunTrial simulates one trial: for each patient, choose a donor, draw a Bernoulli
// response at that donor's rate and feed it back to the allocator.
// The allocator must have been built for len(ActiveDonors(qualities)) donors.
// A nil recorder disables tracing.
func RunTrial(id int, qualities DonorQualities, cfg TrialConfig, alloc Allocator, rng *rand.Rand, recorder *trace.AllocationTrace) (History, error) {
	active, err := cfg.ActiveDonors(qualities)
	if err != nil {
		return nil, err
	}

	history := make(History, 0, cfg.Patients)
	for patient := 0; patient < cfg.Patients; patient++ {
		donor, err := alloc.Choose(rng)
		if err != nil {
			return nil, fmt.Errorf("trial %d patient %d: %w", id, patient, err)
		}
		if donor < 0 || donor >= len(active) {
			return nil, fmt.Errorf("trial %d patient %d: allocator chose donor %d outside pool of %d", id, patient, donor, len(active))
		}

		response := Failure
		if bernoulli(rng, cfg.ResponseRate(active[donor])) {
			response = Success
		}
		if err := alloc.Update(response, donor); err != nil {
			return nil, fmt.Errorf("trial %d patient %d: %w", id, patient, err)
		}
		history = append(history, Outcome{Donor: donor, Response: response})

		if recorder != nil {
			rec := trace.AllocationRecord{
				Trial:       id,
				Patient:     patient,
				Donor:       donor,
				Efficacious: active[donor] == Efficacious,
				Success:     response == Success,
			}
			if wr, ok := alloc.(WeightReporter); ok {
				rec.Weights = wr.Weights()
			}
			recorder.RecordAllocation(rec)
		}
	}

	logrus.Debugf("trial %d: %d patients, %d successes, donors %s", id, cfg.Patients, history.Successes(), active.String())
	return history, nil
}

// RunTrials simulates one trial per donor pool. Trials are independent: trial i
// draws from rng stream SubsystemTrial(i) of key and gets a fresh allocator from
// factory, so output is identical for any worker count. workers <= 0 means one
// worker. Results are returned in pool order; the first error aborts the run.
func RunTrials(pools []DonorQualities, cfg TrialConfig, factory AllocatorFactory, key SimulationKey, workers int, recorder *trace.AllocationTrace) ([]History, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Check every pool up front so no patient is simulated for an invalid request.
	for i, q := range pools {
		active, err := cfg.ActiveDonors(q)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		if len(active) > MaxDonors {
			return nil, fmt.Errorf("trial %d: %d donors exceed the %d that histories can encode", i, len(active), MaxDonors)
		}
	}

	// PartitionedRNG is single-goroutine; derive all streams before fanning out.
	rngs := NewPartitionedRNG(key)
	streams := make([]*rand.Rand, len(pools))
	for i := range pools {
		streams[i] = rngs.ForTrial(i)
	}

	var traces []*trace.AllocationTrace
	if recorder != nil {
		traces = make([]*trace.AllocationTrace, len(pools))
	}

	if workers <= 0 {
		workers = 1
	}
	histories := make([]History, len(pools))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, q := range pools {
		g.Go(func() error {
			active, _ := cfg.ActiveDonors(q)
			alloc, err := factory(len(active))
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			var tr *trace.AllocationTrace
			if traces != nil {
				tr = trace.NewAllocationTrace(recorder.Config)
				traces[i] = tr
			}
			h, err := RunTrial(i, q, cfg, alloc, streams[i], tr)
			if err != nil {
				return err
			}
			histories[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, tr := range traces {
		recorder.Merge(tr)
	}
	return histories, nil
}

// PlaceboHistories simulates nTrials single-arm placebo trials. Every patient is
// assigned to PlaceboDonor and responds with probability rate.
func PlaceboHistories(nTrials, patients int, rate float64, rng *rand.Rand) ([]History, error) {
	if nTrials < 0 || patients < 0 {
		return nil, fmt.Errorf("trials and patients must be non-negative, got %d and %d", nTrials, patients)
	}
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("placebo rate must be in [0, 1], got %f", rate)
	}
	histories := make([]History, nTrials)
	for t := range histories {
		h := make(History, patients)
		for p := range h {
			h[p] = Outcome{Donor: PlaceboDonor, Response: Failure}
			if bernoulli(rng, rate) {
				h[p].Response = Success
			}
		}
		histories[t] = h
	}
	return histories, nil
}
