// Package schedule orders and batches pipeline recomputation. Stages form a
// small dependency graph: emitting one stage cascades to its downstream
// dependents, duplicate events collapse to the latest, and non-immediate
// events batch for one ~16 ms tick. A flush dispatches the batch in priority
// order, triggers exactly one render, and defers histogram recomputation to
// the next tick so it never delays the visible frame.
package schedule

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

var _ = fmt.Print

// Stage tags one pipeline concern. Declaration order is execution order; the
// integer value is the dispatch priority.
type Stage int

const (
	StageSource Stage = iota
	StageGeometry
	StageFilmCurve
	StageInversion
	StageBaseDensity
	StageWhiteBalance
	StageExposure
	StageCurves
	StageHSL
	StageSplitTone
	StageLUT
	StageOutput
)

var stageNames = map[Stage]string{
	StageSource:       "source",
	StageGeometry:     "geometry",
	StageFilmCurve:    "filmCurve",
	StageInversion:    "inversion",
	StageBaseDensity:  "baseDensity",
	StageWhiteBalance: "whiteBalance",
	StageExposure:     "exposure",
	StageCurves:       "curves",
	StageHSL:          "hsl",
	StageSplitTone:    "splitTone",
	StageLUT:          "lut",
	StageOutput:       "output",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// dependents is the downstream edge set. A source change invalidates
// geometry; a geometry change invalidates the whole color chain because crop
// bounds changed; each color stage invalidates the next; everything ends at
// output.
var dependents = map[Stage][]Stage{
	StageSource:       {StageGeometry},
	StageGeometry:     {StageFilmCurve},
	StageFilmCurve:    {StageInversion},
	StageInversion:    {StageBaseDensity},
	StageBaseDensity:  {StageWhiteBalance},
	StageWhiteBalance: {StageExposure},
	StageExposure:     {StageCurves},
	StageCurves:       {StageHSL},
	StageHSL:          {StageSplitTone},
	StageSplitTone:    {StageLUT},
	StageLUT:          {StageOutput},
}

// DebounceInterval is one scheduling tick.
const DebounceInterval = 16 * time.Millisecond

// Event is one queued stage invalidation with optional payload.
type Event struct {
	Stage Stage
	Data  any
}

// Listener receives dispatched events for one stage.
type Listener func(Event)

type emitOptions struct {
	immediate bool
	cascade   bool
}

// EmitOption adjusts one Emit call.
type EmitOption func(*emitOptions)

// Immediate flushes synchronously instead of waiting for the tick.
func Immediate() EmitOption {
	return func(o *emitOptions) { o.immediate = true }
}

// NoCascade enqueues only the emitted stage, without its dependents.
func NoCascade() EmitOption {
	return func(o *emitOptions) { o.cascade = false }
}

// Scheduler batches stage events and dispatches them to listeners. The
// zero value is not usable; call NewScheduler.
type Scheduler struct {
	mu        sync.Mutex
	listeners map[Stage]map[string]Listener
	pending   map[Stage]Event
	timer     *time.Timer

	render    func()
	histogram func()

	suspended    bool
	histogramDue bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		listeners: make(map[Stage]map[string]Listener),
		pending:   make(map[Stage]Event),
	}
}

// OnRender sets the callback invoked exactly once per flush.
func (s *Scheduler) OnRender(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.render = fn
}

// OnHistogram sets the callback invoked on the tick after a geometry or
// source event.
func (s *Scheduler) OnHistogram(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histogram = fn
}

// Register adds a listener under an id. Registering the same id again
// replaces the previous listener.
func (s *Scheduler) Register(stage Stage, id string, fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.listeners[stage]
	if m == nil {
		m = make(map[string]Listener)
		s.listeners[stage] = m
	}
	m[id] = fn
}

// Unregister removes a listener. Removing an absent id is a no-op.
func (s *Scheduler) Unregister(stage Stage, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners[stage], id)
}

// Emit queues a stage invalidation. Cascading (the default) also queues the
// stage's transitive dependents; the payload rides only on the emitted stage.
// Non-immediate events wait for the tick timer or an explicit Flush.
func (s *Scheduler) Emit(stage Stage, data any, opts ...EmitOption) {
	o := emitOptions{cascade: true}
	for _, opt := range opts {
		opt(&o)
	}
	s.mu.Lock()
	s.pending[stage] = Event{Stage: stage, Data: data}
	if o.cascade {
		for _, dep := range cascadeOf(stage) {
			if _, queued := s.pending[dep]; !queued {
				s.pending[dep] = Event{Stage: dep}
			}
		}
	}
	if o.immediate {
		s.mu.Unlock()
		s.Flush()
		return
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(DebounceInterval, s.Flush)
	}
	s.mu.Unlock()
}

// cascadeOf returns the transitive dependents of a stage.
func cascadeOf(stage Stage) []Stage {
	var out []Stage
	seen := map[Stage]bool{stage: true}
	frontier := []Stage{stage}
	for len(frontier) > 0 {
		next := frontier[0]
		frontier = frontier[1:]
		for _, dep := range dependents[next] {
			if !seen[dep] {
				seen[dep] = true
				out = append(out, dep)
				frontier = append(frontier, dep)
			}
		}
	}
	return out
}

// Flush cancels the tick timer and dispatches the pending batch in ascending
// priority order, then triggers one render. A geometry or source event in
// the batch arms a histogram recompute for the next tick; a due histogram
// from the previous flush runs now.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	batch := make([]Event, 0, len(s.pending))
	for _, ev := range s.pending {
		batch = append(batch, ev)
	}
	clear(s.pending)
	slices.SortFunc(batch, func(a, b Event) int { return int(a.Stage) - int(b.Stage) })

	histogramNow := s.histogramDue
	s.histogramDue = false
	geoSeen := false
	for _, ev := range batch {
		if ev.Stage == StageSource || ev.Stage == StageGeometry {
			geoSeen = true
		}
	}

	targets := make([][]Listener, 0, len(batch))
	for _, ev := range batch {
		m := s.listeners[ev.Stage]
		ids := make([]string, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		fns := make([]Listener, 0, len(ids))
		for _, id := range ids {
			fns = append(fns, m[id])
		}
		targets = append(targets, fns)
	}
	render := s.render
	histogram := s.histogram
	suspended := s.suspended
	if geoSeen && !suspended {
		s.histogramDue = true
		if s.timer == nil {
			s.timer = time.AfterFunc(DebounceInterval, s.Flush)
		}
	}
	s.mu.Unlock()

	for i, ev := range batch {
		for _, fn := range targets[i] {
			fn(ev)
		}
	}
	if suspended {
		return
	}
	if len(batch) > 0 && render != nil {
		render()
	}
	if histogramNow && histogram != nil {
		histogram()
	}
}

// Suspend skips rendering and histogram work while an interactive rotation
// drag is active. Events still queue and listeners still run.
func (s *Scheduler) Suspend() {
	s.mu.Lock()
	s.suspended = true
	s.mu.Unlock()
}

// Resume re-enables rendering and queues a full recompute.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	s.suspended = false
	s.mu.Unlock()
	s.Emit(StageGeometry, nil)
}

// Stop cancels any armed tick timer without dispatching.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	clear(s.pending)
	s.histogramDue = false
}
