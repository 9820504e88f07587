package sim

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"
)

// Quality marks a donor as efficacious or not.
type Quality uint8

const (
	// Inefficacious donors respond at the placebo rate.
	Inefficacious Quality = 0
	// Efficacious donors respond at the treatment rate.
	Efficacious Quality = 1
)

// DonorQualities is one trial's donor pool, in donor-index order.
// Treat as immutable once parsed.
type DonorQualities []Quality

// String renders the pool as its donor-list line (no trailing newline).
func (q DonorQualities) String() string {
	var b strings.Builder
	b.Grow(len(q))
	for _, v := range q {
		b.WriteByte('0' + byte(v))
	}
	return b.String()
}

// EfficaciousCount returns how many donors in the pool are efficacious.
func (q DonorQualities) EfficaciousCount() int {
	n := 0
	for _, v := range q {
		if v == Efficacious {
			n++
		}
	}
	return n
}

// ParseDonorLine parses one donor-list line. Trailing whitespace is ignored.
func ParseDonorLine(line string) (DonorQualities, error) {
	trimmed := strings.TrimRight(line, " \t\r\n")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty line", ErrDonorQuality)
	}
	q := make(DonorQualities, len(trimmed))
	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case '0':
			q[i] = Inefficacious
		case '1':
			q[i] = Efficacious
		default:
			return nil, fmt.Errorf("%w: %q", ErrDonorQuality, trimmed)
		}
	}
	return q, nil
}

// ReadDonorList parses a newline-separated donor list, one trial per line.
// Blank lines are skipped.
func ReadDonorList(r io.Reader) ([]DonorQualities, error) {
	var lists []DonorQualities
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		q, err := ParseDonorLine(scanner.Text())
		if err != nil {
			return nil, err
		}
		lists = append(lists, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading donor list: %w", err)
	}
	return lists, nil
}

// GenerateDonorLists draws nTrials pools of donorsPerTrial donors, each donor
// efficacious with probability ped.
func GenerateDonorLists(donorsPerTrial, nTrials int, ped float64, rng *rand.Rand) ([]DonorQualities, error) {
	if donorsPerTrial <= 0 || nTrials < 0 {
		return nil, fmt.Errorf("donors per trial must be positive and trials non-negative, got %d and %d", donorsPerTrial, nTrials)
	}
	if ped < 0 || ped > 1 {
		return nil, fmt.Errorf("efficacious donor prevalence must be in [0, 1], got %f", ped)
	}
	lists := make([]DonorQualities, nTrials)
	for t := range lists {
		q := make(DonorQualities, donorsPerTrial)
		for i := range q {
			if bernoulli(rng, ped) {
				q[i] = Efficacious
			}
		}
		lists[t] = q
	}
	return lists, nil
}

// WriteDonorList writes one line per pool.
func WriteDonorList(w io.Writer, lists []DonorQualities) error {
	for _, q := range lists {
		if _, err := fmt.Fprintln(w, q.String()); err != nil {
			return err
		}
	}
	return nil
}

// bernoulli returns true with probability p. p <= 0 never fires and p >= 1 always does.
func bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
