package sim

import "errors"

// Error classes surfaced by the engine. Call sites wrap these with context via
// fmt.Errorf("...: %w", ...); callers classify with errors.Is.
var (
	// ErrInvalidParameter marks a parameter set field that is non-positive,
	// out of range, or missing for the selected energy model.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumericDomain marks an intermediate value that would require a log or
	// power of a non-positive number, or produced NaN/Inf.
	ErrNumericDomain = errors.New("numeric domain error")

	// ErrResourceExhausted marks a run whose years*samples exceeds the
	// configured work bound. Rejected before any sampling happens.
	ErrResourceExhausted = errors.New("resource bound exceeded")
)
