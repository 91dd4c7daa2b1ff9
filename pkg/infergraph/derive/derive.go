// Package derive implements the Derivability Engine (DE) from spec.md
// §4.2: incremental, bottom-up goal propagation over an Inference Provider,
// with dynamic blocking/unblocking of conclusions and BFS-style retraction.
//
// The engine is single-threaded (spec.md §5): concurrent calls on the same
// *Engine from multiple goroutines are undefined behavior. Callers needing
// cancellation wrap calls externally — the Derivability Engine does not
// poll an InterruptMonitor and always runs process() to completion.
package derive

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/gitrdm/infergraph/internal/telemetry"
	"github.com/gitrdm/infergraph/pkg/infergraph"
)

// Error kinds for invalid input (spec.md §7).
var (
	ErrNilInferenceSet = errors.New("derive: inference set must not be nil")
	// ErrNilConclusion is returned by IsDerivable, Block, and Unblock when
	// given a nil conclusion, failing fast rather than silently treating it
	// as an ordinary unmatched key.
	ErrNilConclusion = errors.New("derive: conclusion must not be nil")
)

// isNilConclusion reports whether c is a nil value of one of the kinds for
// which reflect.Value.IsNil is legal. Mirrors resolve.isNilGoal: C is
// generic over infergraph.Key, which has no nilable concrete type, so this
// is the only generic way to detect a caller-supplied nil conclusion.
func isNilConclusion[C any](c C) bool {
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// Config holds tunables for the engine, following the teacher's
// SLGConfig/DefaultSLGConfig shape: a plain struct of knobs with a
// constructor supplying defaults, passed (or nil) to NewEngine.
type Config struct {
	// DebugTrace marks this engine for per-step tracing via
	// internal/telemetry. Trace events still go through telemetry.Tracef,
	// which writes only while tracing is enabled globally (telemetry.Enable,
	// telemetry.SetLogger, or INFERGRAPH_TRACE=1); with global tracing off,
	// setting DebugTrace produces no output.
	DebugTrace bool
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{DebugTrace: false}
}

// inferenceRecord is a snapshot of one Inference pulled from the Inference
// Provider, taken each time its conclusion is dequeued from toCheck (a
// conclusion re-entered after Block or Unblock is snapshotted again). Spec.md
// §9 Design Notes recommends snapshotting the IP's inference collection
// into an indexed buffer rather than retaining a live iterator, to remove
// lifetime entanglement with the provider; this is that snapshot, and its
// pointer identity is the engine's stable handle on "this particular
// inference", used as map keys in watchers and firedInferences below.
type inferenceRecord[C infergraph.Key] struct {
	inf      infergraph.Inference[C]
	premises []C
}

// premiseScan tracks, for one inferenceRecord waiting on a premise, the
// index of the next unexamined premise. Spec.md §9 Design Notes observes
// that DE's twin parallel multimaps (watchedInferences_, premiseIteratorsMap_)
// are "cleanly expressed as a single multimap whose value is a tuple
// (Inference, premiseScanIndex)"; premiseScan is that tuple, and the engine
// keeps only the single multimap the note recommends.
type premiseScan[C infergraph.Key] struct {
	rec *inferenceRecord[C]
	pos int
}

// expandFrame is one LIFO entry in toExpand: the (snapshotted) inference
// list for a single conclusion awaiting expansion, plus the index of the
// next inference to examine.
type expandFrame[C infergraph.Key] struct {
	conclusion C
	records    []*inferenceRecord[C]
	pos        int
}

// Engine is the Derivability Engine. It answers IsDerivable(c), with
// dynamic Block/Unblock of conclusions, and maintains incremental state
// across queries.
type Engine[C infergraph.Key] struct {
	ip     infergraph.InferenceSet[C]
	config *Config

	goals     map[C]struct{}
	derivable map[C]struct{}
	blocked   map[C]struct{}

	toCheck     []C
	toExpand    []*expandFrame[C]
	toPropagate []C

	// watchers[p] is the list of premise scans currently parked waiting on
	// p to become derivable.
	watchers map[C][]*premiseScan[C]

	// fired[p] is the set of inference records that fired using p as one
	// of their premises, used to cascade retraction when p is blocked.
	fired map[C]map[*inferenceRecord[C]]struct{}
}

// NewEngine constructs a Derivability Engine over the given Inference
// Provider. A nil ip is a precondition violation and fails fast per
// spec.md §7.
func NewEngine[C infergraph.Key](ip infergraph.InferenceSet[C], config *Config) (*Engine[C], error) {
	if ip == nil {
		return nil, ErrNilInferenceSet
	}
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine[C]{
		ip:        ip,
		config:    config,
		goals:     make(map[C]struct{}),
		derivable: make(map[C]struct{}),
		blocked:   make(map[C]struct{}),
		watchers:  make(map[C][]*premiseScan[C]),
		fired:     make(map[C]map[*inferenceRecord[C]]struct{}),
	}, nil
}

func (e *Engine[C]) tracef(msg string, kv ...any) {
	if e.config.DebugTrace || telemetry.Enabled() {
		telemetry.Tracef(msg, kv...)
	}
}

// IsDerivable reports whether c is derivable: some inference produces it
// whose every premise is (recursively) derivable, under the current
// blocked set. Engine state persists across calls (spec.md §3 Lifecycles).
// A nil c fails fast with ErrNilConclusion rather than silently behaving
// like any other unmatched key (spec.md §7).
func (e *Engine[C]) IsDerivable(c C) (bool, error) {
	if isNilConclusion(c) {
		return false, ErrNilConclusion
	}
	if _, ok := e.blocked[c]; ok {
		return false, nil
	}
	if _, ok := e.goals[c]; !ok {
		e.goals[c] = struct{}{}
		e.toCheck = append(e.toCheck, c)
	}
	e.process()
	_, ok := e.derivable[c]
	return ok, nil
}

// Block excludes c from participating in any derivation, retracting its
// current derivability (and anything whose only support passed through it)
// via BFS. Returns false if c was already blocked. A nil c fails fast with
// ErrNilConclusion.
func (e *Engine[C]) Block(c C) (bool, error) {
	if isNilConclusion(c) {
		return false, ErrNilConclusion
	}
	if _, ok := e.blocked[c]; ok {
		return false, nil
	}
	e.blocked[c] = struct{}{}
	e.tracef("block", "conclusion", fmt.Sprint(c))
	e.unCheck(c)
	return true, nil
}

// Unblock re-admits c into derivations. If c is a tracked goal that still
// has pending watchers (other inferences waiting on it), it is re-enqueued
// for checking and
// process() is run immediately so dependents can observe the change on
// their next IsDerivable call without needing c re-queried directly.
// Returns false if c was not blocked. A nil c fails fast with
// ErrNilConclusion.
func (e *Engine[C]) Unblock(c C) (bool, error) {
	if isNilConclusion(c) {
		return false, ErrNilConclusion
	}
	if _, ok := e.blocked[c]; !ok {
		return false, nil
	}
	delete(e.blocked, c)
	e.tracef("unblock", "conclusion", fmt.Sprint(c))
	if _, isGoal := e.goals[c]; isGoal {
		if len(e.watchers[c]) > 0 {
			e.toCheck = append(e.toCheck, c)
			e.process()
		}
	}
	return true, nil
}

// BlockedConclusions returns a snapshot of the currently blocked set.
func (e *Engine[C]) BlockedConclusions() map[C]struct{} {
	return cloneSet(e.blocked)
}

// NonDerivableConclusions returns the key set of the watcher multimap: every
// conclusion some pending inference is still waiting on. It is diagnostic,
// not exhaustive: a queried conclusion that no pending inference waits on
// (for example one with no inferences at all) is not included even when it
// is non-derivable, and inferences left unexamined because their
// conclusion was already derived add no entries.
func (e *Engine[C]) NonDerivableConclusions() map[C]struct{} {
	out := make(map[C]struct{}, len(e.watchers))
	for c, ws := range e.watchers {
		if len(ws) > 0 {
			out[c] = struct{}{}
		}
	}
	return out
}

// process runs the strict-priority loop from spec.md §4.2 to a fixpoint:
// toCheck (new goals needing their inference list pulled) before
// toPropagate (newly derived conclusions to push to watchers) before
// toExpand (pending inference candidates, LIFO for DFS-like expansion).
func (e *Engine[C]) process() {
	for {
		switch {
		case len(e.toCheck) > 0:
			c := e.toCheck[0]
			e.toCheck = e.toCheck[1:]
			if _, ok := e.blocked[c]; ok {
				continue
			}
			records := e.snapshot(c)
			if len(records) > 0 {
				e.toExpand = append(e.toExpand, &expandFrame[C]{conclusion: c, records: records})
			}

		case len(e.toPropagate) > 0:
			c := e.toPropagate[0]
			e.toPropagate = e.toPropagate[1:]
			waiting := e.watchers[c]
			delete(e.watchers, c)
			for _, ps := range waiting {
				ps.pos++
				e.scan(ps)
			}

		case len(e.toExpand) > 0:
			frame := e.toExpand[len(e.toExpand)-1]
			rec := frame.records[frame.pos]
			frame.pos++
			if _, ok := e.derivable[frame.conclusion]; ok {
				e.toExpand = e.toExpand[:len(e.toExpand)-1]
				continue
			}
			e.scan(&premiseScan[C]{rec: rec, pos: 0})
			if frame.pos >= len(frame.records) {
				e.toExpand = e.toExpand[:len(e.toExpand)-1]
			}

		default:
			return
		}
	}
}

// snapshot pulls c's inference list from the Inference Provider and
// captures each inference's premises, giving the engine a stable,
// index-addressable handle independent of the provider's iteration
// lifetime (spec.md §9 Design Notes).
func (e *Engine[C]) snapshot(c C) []*inferenceRecord[C] {
	infs := e.ip.InferencesOf(c)
	records := make([]*inferenceRecord[C], 0, len(infs))
	for _, inf := range infs {
		if isTautology(inf) {
			continue
		}
		records = append(records, &inferenceRecord[C]{inf: inf, premises: inf.Premises()})
	}
	return records
}

// isTautology reports whether inf's conclusion appears among its premises
// (spec.md §3): such an inference is excluded from consideration.
func isTautology[C infergraph.Key](inf infergraph.Inference[C]) bool {
	c := inf.Conclusion()
	for _, p := range inf.Premises() {
		if p == c {
			return true
		}
	}
	return false
}

// scan advances ps over its inference's premises starting at ps.pos. On
// the first not-yet-derivable premise it parks ps as a watcher and
// returns; if every premise is already derivable, it fires the inference.
func (e *Engine[C]) scan(ps *premiseScan[C]) {
	for ps.pos < len(ps.rec.premises) {
		p := ps.rec.premises[ps.pos]
		if _, ok := e.derivable[p]; !ok {
			e.addWatch(p, ps)
			return
		}
		ps.pos++
	}
	e.fire(ps.rec)
}

// addWatch parks ps under key p, creating p as a tracked goal (and
// enqueueing it for checking) if this is the first time anything has
// needed p.
func (e *Engine[C]) addWatch(p C, ps *premiseScan[C]) {
	e.watchers[p] = append(e.watchers[p], ps)
	if _, ok := e.goals[p]; !ok {
		e.goals[p] = struct{}{}
		e.toCheck = append(e.toCheck, p)
	}
}

// fire marks rec's conclusion derivable (enqueueing it for propagation if
// newly so) and records rec against each of its distinct premises for
// later retraction bookkeeping. A blocked conclusion is left underived.
func (e *Engine[C]) fire(rec *inferenceRecord[C]) {
	c := rec.inf.Conclusion()
	if _, ok := e.blocked[c]; ok {
		return
	}
	if _, ok := e.derivable[c]; !ok {
		e.derivable[c] = struct{}{}
		e.toPropagate = append(e.toPropagate, c)
		e.tracef("fire", "conclusion", fmt.Sprint(c), "inference", rec.inf.Name())
	}
	seen := make(map[C]struct{}, len(rec.premises))
	for _, p := range rec.premises {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if e.fired[p] == nil {
			e.fired[p] = make(map[*inferenceRecord[C]]struct{})
		}
		e.fired[p][rec] = struct{}{}
	}
}

// unCheck performs BFS retraction starting at c: c is dropped from goals;
// if it was derivable, it is un-derived, and every inference recorded as
// having fired using c as a premise has its own conclusion enqueued for
// retraction in turn, and that inference is removed from the fired
// bookkeeping of its other premises. Watchers are deliberately left untouched, per
// spec.md §4.2 — a later Unblock re-enters the goal if it is still wanted.
func (e *Engine[C]) unCheck(c C) {
	queue := []C{c}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		delete(e.goals, cur)
		if _, ok := e.derivable[cur]; !ok {
			continue
		}
		delete(e.derivable, cur)

		firedHere := e.fired[cur]
		delete(e.fired, cur)
		for rec := range firedHere {
			queue = append(queue, rec.inf.Conclusion())
			for _, p := range rec.premises {
				if p == cur {
					continue
				}
				if set := e.fired[p]; set != nil {
					delete(set, rec)
					if len(set) == 0 {
						delete(e.fired, p)
					}
				}
			}
		}
	}
}

func cloneSet[C infergraph.Key](s map[C]struct{}) map[C]struct{} {
	out := make(map[C]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}
