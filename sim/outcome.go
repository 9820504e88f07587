package sim

import (
	"fmt"
	"strings"
)

// Response is a patient's binary outcome.
type Response int

const (
	Failure Response = 0
	Success Response = 1
)

// Valid reports whether r is Failure or Success.
func (r Response) Valid() bool {
	return r == Failure || r == Success
}

// Symbol returns the history marker for r: 's' or 'f'.
func (r Response) Symbol() (byte, error) {
	switch r {
	case Success:
		return 's', nil
	case Failure:
		return 'f', nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidResponse, int(r))
	}
}

const (
	// MaxDonors is the number of real donor indices with a display symbol (0..14).
	MaxDonors = 15
	// PlaceboDonor is the reserved donor index of the single-arm placebo group.
	PlaceboDonor = MaxDonors
)

// donorSymbols maps donor index to its history symbol. The placebo donor sits at
// index PlaceboDonor.
var donorSymbols = [MaxDonors + 1]byte{
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P',
}

// DonorSymbol returns the display symbol for a donor index.
func DonorSymbol(donor int) (byte, error) {
	if donor < 0 || donor > PlaceboDonor {
		return 0, fmt.Errorf("donor index %d has no symbol; valid range is 0-%d", donor, PlaceboDonor)
	}
	return donorSymbols[donor], nil
}

// DonorIndex is the inverse of DonorSymbol.
func DonorIndex(symbol byte) (int, bool) {
	for i, s := range donorSymbols {
		if s == symbol {
			return i, true
		}
	}
	return 0, false
}

// EncodeOutcome returns the two-character token for a donor/response pair.
func EncodeOutcome(donor int, response Response) (string, error) {
	d, err := DonorSymbol(donor)
	if err != nil {
		return "", err
	}
	r, err := response.Symbol()
	if err != nil {
		return "", err
	}
	return string([]byte{d, r}), nil
}

// Outcome is a single patient's allocation and response.
type Outcome struct {
	Donor    int
	Response Response
}

// History is one trial's ordered outcomes.
type History []Outcome

// Successes counts successful responses.
func (h History) Successes() int {
	n := 0
	for _, o := range h {
		if o.Response == Success {
			n++
		}
	}
	return n
}

// Encode renders the history as its text line (no trailing newline).
func (h History) Encode() (string, error) {
	var b strings.Builder
	b.Grow(2 * len(h))
	for _, o := range h {
		tok, err := EncodeOutcome(o.Donor, o.Response)
		if err != nil {
			return "", err
		}
		b.WriteString(tok)
	}
	return b.String(), nil
}

// ParseHistory decodes a history line. Donor characters must be uppercase
// letters and response markers must be 's' or 'f'. Letters outside the donor
// symbol table are accepted and mapped to index (letter - 'A') so that
// histories from wider pools still parse.
func ParseHistory(line string) (History, error) {
	trimmed := strings.TrimRight(line, " \t\r\n")
	if len(trimmed)%2 != 0 {
		return nil, fmt.Errorf("%w: odd-length history line %q", ErrParse, trimmed)
	}
	h := make(History, 0, len(trimmed)/2)
	for i := 0; i < len(trimmed); i += 2 {
		d, r := trimmed[i], trimmed[i+1]
		if d < 'A' || d > 'Z' {
			return nil, fmt.Errorf("%w: bad donor id %q at position %d in history line %q", ErrParse, d, i, trimmed)
		}
		donor, ok := DonorIndex(d)
		if !ok {
			donor = int(d - 'A')
		}
		var resp Response
		switch r {
		case 's':
			resp = Success
		case 'f':
			resp = Failure
		default:
			return nil, fmt.Errorf("%w: bad response marker %q at position %d in history line %q", ErrParse, r, i+1, trimmed)
		}
		h = append(h, Outcome{Donor: donor, Response: resp})
	}
	return h, nil
}
