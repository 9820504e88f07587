package sim

import "errors"

// Error taxonomy. Every failure is fatal to the computation in progress; callers
// match kinds with errors.Is and surface the wrapped message.
var (
	// ErrParse reports a malformed donor list or outcome history line.
	ErrParse = errors.New("parse error")

	// ErrDonorQuality reports a donor-quality character other than '0' or '1'.
	// It is a kind of ErrParse.
	ErrDonorQuality = &kindError{msg: "malformed donor quality line", parent: ErrParse}

	// ErrDonorCount reports a request for more donors than a trial's list holds.
	ErrDonorCount = errors.New("requested donors exceed available donors")

	// ErrInvalidResponse reports a response value outside {Failure, Success}.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrArmSizeMismatch reports paired histories whose patient counts differ.
	ErrArmSizeMismatch = errors.New("arm size mismatch")

	// ErrEmptyInput reports a power computation over zero trial pairs.
	ErrEmptyInput = errors.New("empty input")

	// ErrNumericIntegration reports a quadrature whose error estimate exceeds tolerance.
	ErrNumericIntegration = errors.New("numeric integration did not converge")
)

// kindError is a sentinel that also matches its parent kind under errors.Is.
type kindError struct {
	msg    string
	parent error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.parent }
