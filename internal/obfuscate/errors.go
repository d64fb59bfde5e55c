package obfuscate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRoundTrip marks output that does not parse back to the transformed tree.
	ErrRoundTrip = errors.New("output does not round-trip")
	// ErrDistributionChanged marks a transform that changed rolled outcomes.
	ErrDistributionChanged = errors.New("resolved distribution changed")
)

// RoundTripError reports emitted output that decodes to something other
// than what was transformed. It always indicates a defect in the emitter.
type RoundTripError struct {
	// Doc is the 1-based document number, or 0 for the whole stream.
	Doc  int
	Diff string
}

func (e *RoundTripError) Error() string {
	if e.Doc == 0 {
		return fmt.Sprintf("%s: %s", ErrRoundTrip, e.Diff)
	}

	return fmt.Sprintf("%s: document %d: %s", ErrRoundTrip, e.Doc, e.Diff)
}

func (e *RoundTripError) Unwrap() error { return ErrRoundTrip }

// DistributionError lists the options whose frequencies moved during
// verification.
type DistributionError struct {
	Doc        int
	Mismatches []string
}

func (e *DistributionError) Error() string {
	return fmt.Sprintf("%s: document %d: %s", ErrDistributionChanged, e.Doc, strings.Join(e.Mismatches, "; "))
}

func (e *DistributionError) Unwrap() error { return ErrDistributionChanged }
