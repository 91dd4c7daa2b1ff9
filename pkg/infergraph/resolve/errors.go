package resolve

import "errors"

// Error kinds for invalid construction input and internal invariant
// violations (spec.md §7), following the teacher's fd.go/optimize.go
// sentinel-error style: plain package vars, returned as-is so callers can
// errors.Is against them.
var (
	// ErrNilInferenceSet is returned by NewEngine when ip is nil.
	ErrNilInferenceSet = errors.New("resolve: inference set must not be nil")

	// ErrNilJustifier is returned by NewEngine when justifier is nil.
	ErrNilJustifier = errors.New("resolve: justifier must not be nil")

	// ErrNilListener is returned by EnumerateOrdered when listener is nil.
	ErrNilListener = errors.New("resolve: listener must not be nil")

	// ErrNilGoal is returned when goal is a nilable kind (pointer, map,
	// slice, chan, func, interface) and holds a nil value. Conclusion types
	// that are not nilable kinds (strings, ints, structs) never trigger
	// this check.
	ErrNilGoal = errors.New("resolve: goal must not be nil")

	// ErrImpossibleSelection is returned when a Selection strategy selects
	// the conclusion of a derived inference whose conclusion is the current
	// goal while it still has premises — the goal is the terminal sink and
	// can never be a valid resolution pivot (spec.md §4.4/§7).
	ErrImpossibleSelection = errors.New("resolve: selected conclusion equal to goal with non-empty premises")

	// ErrQueueOverflow is returned when the produced-inference queue grows
	// past Config.MaxQueueSize, the safety-net circuit breaker against
	// pathological cyclic graphs that defeat subsumption-based termination
	// (spec.md §9 Design Notes).
	ErrQueueOverflow = errors.New("resolve: produced-inference queue exceeded MaxQueueSize")
)
