// Package resolve implements the Resolution-Based Minimal Justification
// Engine (RE) from spec.md §4.4: goal-directed SLD-style resolution between
// derived inferences, with subsumption pruning via infergraph/minimal,
// priority-ordered expansion, and a pluggable literal-selection strategy.
package resolve

import (
	"fmt"

	"github.com/gitrdm/infergraph/internal/telemetry"
	"github.com/gitrdm/infergraph/pkg/infergraph"
)

// Config holds engine-wide tunables, following the teacher's
// SLGConfig/DefaultSLGConfig shape: a plain struct with a constructor
// supplying defaults, passed (or nil) to NewEngine.
type Config[C infergraph.Key, A infergraph.Key] struct {
	// Selection is the literal-selection strategy. Defaults to
	// Threshold(2), the factory default per spec.md §4.4.
	Selection Selection[C, A]

	// Interrupt is polled at the top of every process() iteration
	// (spec.md §5). Defaults to infergraph.NeverInterrupted{}.
	Interrupt infergraph.InterruptMonitor

	// MaxQueueSize caps the produced-inference priority queue as a
	// circuit breaker; 0 means unbounded.
	MaxQueueSize int

	// MaxDerivedPremises caps premiseCount per derived inference as a
	// safety net against pathological cyclic graphs that would otherwise
	// rely solely on subsumption for termination (spec.md §9 Design
	// Notes: "may add a depth bound as a safety net"); 0 means unbounded,
	// preserving spec semantics exactly.
	MaxDerivedPremises int

	// DebugTrace marks this engine for per-step tracing via
	// internal/telemetry. Trace events still go through telemetry.Tracef,
	// which writes only while tracing is enabled globally; with global
	// tracing off, setting DebugTrace produces no output.
	DebugTrace bool
}

// DefaultConfig returns Threshold(2) selection, no interrupt monitor, and
// unbounded queue/depth limits.
func DefaultConfig[C infergraph.Key, A infergraph.Key]() *Config[C, A] {
	return &Config[C, A]{
		Selection: NewThreshold[C, A](2),
		Interrupt: infergraph.NeverInterrupted{},
	}
}

// Engine holds the per-engine shared state from spec.md §4.4 that persists
// across queries with different goals: which conclusions have had their
// original inferences lifted, the subsumption index per conclusion, the
// pivot-partitioned indexes, and inferences shelved pending a goal change.
type Engine[C infergraph.Key, A infergraph.Key] struct {
	ip        infergraph.InferenceSet[C]
	justifier infergraph.InferenceJustifier[C, A]
	config    *Config[C, A]

	initialized                     map[C]struct{}
	minimalInferencesByConclusion   map[C][]*DerivedInference[C, A]
	inferencesBySelectedConclusions map[C][]*DerivedInference[C, A]
	inferencesBySelectedPremises    map[C][]*DerivedInference[C, A]
	blockedInferences               []*DerivedInference[C, A]

	inferenceCountCache map[C]int

	producedInferenceCount int
	minimalInferenceCount  int
}

// NewEngine constructs a Resolution Engine over the given Inference
// Provider and justifier. A nil ip or justifier fails fast per spec.md §7.
func NewEngine[C infergraph.Key, A infergraph.Key](
	ip infergraph.InferenceSet[C],
	justifier infergraph.InferenceJustifier[C, A],
	config *Config[C, A],
) (*Engine[C, A], error) {
	if ip == nil {
		return nil, ErrNilInferenceSet
	}
	if justifier == nil {
		return nil, ErrNilJustifier
	}
	if config == nil {
		config = DefaultConfig[C, A]()
	}
	if config.Selection == nil {
		config.Selection = NewThreshold[C, A](2)
	}
	if config.Interrupt == nil {
		config.Interrupt = infergraph.NeverInterrupted{}
	}
	return &Engine[C, A]{
		ip:                               ip,
		justifier:                        justifier,
		config:                           config,
		initialized:                      make(map[C]struct{}),
		minimalInferencesByConclusion:    make(map[C][]*DerivedInference[C, A]),
		inferencesBySelectedConclusions: make(map[C][]*DerivedInference[C, A]),
		inferencesBySelectedPremises:    make(map[C][]*DerivedInference[C, A]),
		inferenceCountCache:             make(map[C]int),
	}, nil
}

// Stats returns the observational counters from spec.md §4.4 "Statistics
// hooks": the number of derived inferences materialized and the number
// found subsumption-minimal for their conclusion, across this engine's
// lifetime.
func (e *Engine[C, A]) Stats() (producedInferenceCount, minimalInferenceCount int) {
	return e.producedInferenceCount, e.minimalInferenceCount
}

// ResetStats zeros the statistics counters without touching any other
// engine state.
func (e *Engine[C, A]) ResetStats() {
	e.producedInferenceCount = 0
	e.minimalInferenceCount = 0
}

func (e *Engine[C, A]) tracef(msg string, kv ...any) {
	if e.config.DebugTrace || telemetry.Enabled() {
		telemetry.Tracef(msg, kv...)
	}
}

// inferenceCount reports how many IP inferences produce c, memoizing the
// IP lookup since Selection strategies query it repeatedly for the same
// conclusions.
func (e *Engine[C, A]) inferenceCount(c C) int {
	if n, ok := e.inferenceCountCache[c]; ok {
		return n
	}
	n := len(e.ip.InferencesOf(c))
	e.inferenceCountCache[c] = n
	return n
}

// testAndStoreMinimal implements spec.md §4.4 step 6: test inf against the
// derived inferences already stored for its conclusion (subsumption: same
// conclusion, premises ⊆, justification ⊆). If some stored entry subsumes
// inf, inf is discarded (false). Otherwise inf is stored and any entries it
// itself subsumes are dropped, keeping minimalInferencesByConclusion an
// antichain per the invariant in spec.md §3.
func (e *Engine[C, A]) testAndStoreMinimal(inf *DerivedInference[C, A]) bool {
	existing := e.minimalInferencesByConclusion[inf.Conclusion]
	kept := make([]*DerivedInference[C, A], 0, len(existing))
	for _, x := range existing {
		if isSubset(x.Premises, inf.Premises) && isSubset(x.Justification, inf.Justification) {
			return false
		}
		if !(isSubset(inf.Premises, x.Premises) && isSubset(inf.Justification, x.Justification)) {
			kept = append(kept, x)
		}
	}
	kept = append(kept, inf)
	e.minimalInferencesByConclusion[inf.Conclusion] = kept
	e.tracef("minimal", "conclusion", fmt.Sprint(inf.Conclusion), "name", inf.Name)
	return true
}

func isTautologyInf[C infergraph.Key](inf infergraph.Inference[C]) bool {
	c := inf.Conclusion()
	for _, p := range inf.Premises() {
		if p == c {
			return true
		}
	}
	return false
}
