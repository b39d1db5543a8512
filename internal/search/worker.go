// Package search implements the Ruin-and-Recreate worker loop (spec.md
// §4.F): each worker owns an exclusive Problem and repeatedly recreates a
// full placement, evaluates it, ruins part of it, and decides whether to
// keep the result — reporting progress to the global collector and reacting
// to its sync inbox, grounded on the scheduler's goroutine/channel/
// WaitGroup shape generalized from a task queue to a long-running loop.
package search

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/g2dcsp/solver/internal/collector/messages"
	"github.com/g2dcsp/solver/pkg/enumerator"
	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/g2dcsp/solver/pkg/insertion"
	"github.com/g2dcsp/solver/pkg/instance"
	"github.com/g2dcsp/solver/pkg/layout"
	"github.com/g2dcsp/solver/pkg/problem"
	"github.com/g2dcsp/solver/pkg/telemetry"
	"github.com/g2dcsp/solver/pkg/utils"
)

var searchTracer = otel.Tracer("g2dcsp-solver/search")

// Options configures one Worker's R&R policy (spec.md §4.F).
type Options struct {
	ID              int
	Seed            int64
	RuinFractionMin float64
	RuinFractionMax float64
	Comparator      geometry.Comparator
	// ReportEvery bounds how often a full NewIncompleteSolution is sent,
	// as opposed to the cheaper NewIncompleteStats (spec.md §4.F Evaluate
	// "periodically also send a full NewIncompleteSolution").
	ReportEvery time.Duration
}

// Worker runs one R&R search loop against a shared, read-only Instance.
type Worker struct {
	id         int
	inst       *instance.Instance
	comparator geometry.Comparator
	ruinMin    float64
	ruinMax    float64
	reportEvery time.Duration

	rng    *rand.Rand
	clock  utils.Clock
	logger utils.Logger

	inbox  chan messages.CollectorSync
	outbox chan<- messages.WorkerReport

	materialLimit int64 // unboundedMaterialLimit until the collector lowers it
}

const unboundedMaterialLimit = int64(1) << 62

// New builds a Worker. outbox is shared by every worker and drained by the
// collector; inbox is this worker's private sync channel.
func New(opts Options, inst *instance.Instance, outbox chan<- messages.WorkerReport, clock utils.Clock, logger utils.Logger) *Worker {
	if clock == nil {
		clock = utils.NewRealClock()
	}
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}
	return &Worker{
		id:            opts.ID,
		inst:          inst,
		comparator:    opts.Comparator,
		ruinMin:       opts.RuinFractionMin,
		ruinMax:       opts.RuinFractionMax,
		reportEvery:   opts.ReportEvery,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		clock:         clock,
		logger:        logger.WithField("worker_id", opts.ID),
		inbox:         make(chan messages.CollectorSync, 16),
		outbox:        outbox,
		materialLimit: unboundedMaterialLimit,
	}
}

// Inbox returns the channel the collector broadcasts sync messages to.
func (w *Worker) Inbox() chan<- messages.CollectorSync { return w.inbox }

// Run executes R&R iterations until Terminate arrives or deadline passes.
// It blocks until the worker stops, so callers launch it with `go`.
func (w *Worker) Run(deadline time.Time) {
	w.logger.Info("worker starting, deadline in %s", w.clock.Until(deadline))

	p := problem.New(w.inst, w.rng.Int63())
	enum := enumerator.New(w.inst)
	w.recreate(p, enum)

	var bestComplete, bestIncomplete geometry.Cost
	haveComplete, haveIncomplete := false, false
	lastFullReport := w.clock.Now()

	ctx := context.Background()
	var iteration int64

	for {
		if w.drainInbox(&p, &enum) {
			w.logger.Info("worker terminating")
			return
		}
		if !deadline.IsZero() && !w.clock.Now().Before(deadline) {
			w.logger.Info("worker reached deadline")
			return
		}

		var span trace.Span
		if telemetry.Enabled() {
			_, span = searchTracer.Start(ctx, "solver.rr_iteration", trace.WithAttributes(
				attribute.Int("worker_id", w.id),
				attribute.Int64("iteration", iteration),
				attribute.Int64("material_limit", w.materialLimit),
			))
		}
		iteration++

		startCost := p.Cost()
		preRuin := p.Clone()

		w.ruin(p, enum)
		w.recreate(p, enum)

		cost := p.Cost()
		accepted := w.comparator(cost, startCost) <= 0
		if !accepted {
			// Ruin+Recreate made things worse; restore the pre-ruin state
			// rather than journaling every commit (spec.md §4.F Accept).
			p = preRuin
			enum = enumerator.New(w.inst)
			cost = p.Cost()
		}
		if span != nil {
			span.SetAttributes(attribute.Bool("accepted", accepted))
			span.End()
		}

		if p.IsComplete() {
			if !haveComplete || w.comparator(cost, bestComplete) < 0 {
				haveComplete = true
				bestComplete = cost
				w.outbox <- messages.CompleteSolution(w.id, p.Snapshot())
			}
		} else {
			improved := !haveIncomplete || cost.PartAreaExcluded < bestIncomplete.PartAreaExcluded
			if improved {
				haveIncomplete = true
				bestIncomplete = cost
				w.outbox <- messages.IncompleteStats(w.id, messages.SolutionStats{
					MaterialCost:     cost.MaterialCost,
					PartAreaExcluded: cost.PartAreaExcluded,
				})
			}
			if w.reportEvery > 0 && w.clock.Since(lastFullReport) >= w.reportEvery {
				lastFullReport = w.clock.Now()
				w.outbox <- messages.IncompleteSolution(w.id, p.Snapshot())
			}
		}
	}
}

// drainInbox processes pending sync messages without blocking. It reports
// whether the worker should terminate, and resets *p/*enum in place when a
// lowered material_limit forces a restart from empty templates.
func (w *Worker) drainInbox(p **problem.Problem, enum **enumerator.Enumerator) bool {
	for {
		select {
		case msg := <-w.inbox:
			switch msg.Kind {
			case messages.Terminate:
				return true
			case messages.SyncMatLimit:
				w.materialLimit = msg.MaterialCost
				if (*p).Cost().MaterialCost > w.materialLimit {
					*p = problem.New(w.inst, w.rng.Int63())
					*enum = enumerator.New(w.inst)
					w.recreate(*p, *enum)
				}
			}
		default:
			return false
		}
	}
}

// recreate places every remaining part type's demand greedily under the
// comparator, one best-scoring blueprint at a time, until no further part
// type has a feasible blueprint (spec.md §4.F Recreate).
func (w *Worker) recreate(p *problem.Problem, enum *enumerator.Enumerator) {
	for {
		order := w.shuffledPartTypeIDs()
		placedAny := false
		for _, ptID := range order {
			if p.PartTypeQtyRemaining(ptID) <= 0 {
				continue
			}
			candidates := enum.Candidates(p, ptID)
			if len(candidates) == 0 {
				continue // unplaceable this round
			}
			best := pickBest(candidates, w.comparator)
			updates, _, err := p.Commit(best)
			if err != nil {
				continue
			}
			enum.Invalidate(best.LayoutID, updates)
			placedAny = true
		}
		if !placedAny {
			return
		}
	}
}

func (w *Worker) shuffledPartTypeIDs() []int {
	ids := make([]int, len(w.inst.PartTypes))
	for i := range ids {
		ids[i] = i
	}
	w.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids
}

// pickBest returns the candidate with the lowest Cost delta under cmp;
// ties keep the earlier candidate, which enumerator.Candidates has already
// ordered by the tie-break rule of spec.md §4.E.
func pickBest(candidates []*insertion.Blueprint, cmp geometry.Comparator) *insertion.Blueprint {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if cmp(c.CostDelta, best.CostDelta) < 0 {
			best = c
		}
	}
	return best
}

type itemRef struct {
	layoutID int
	nodeID   layout.NodeID
}

// ruin removes a uniformly chosen fraction of currently placed Items,
// releasing any layout that becomes empty (spec.md §4.F Ruin).
func (w *Worker) ruin(p *problem.Problem, enum *enumerator.Enumerator) {
	var items []itemRef
	for _, l := range p.Layouts {
		var leaves []layout.NodeID
		leaves = l.Tree.Leaves(l.Tree.Root(), leaves[:0])
		for _, id := range leaves {
			if l.Tree.Kind(id) == layout.Item {
				items = append(items, itemRef{layoutID: l.ID, nodeID: id})
			}
		}
	}
	if len(items) == 0 {
		return
	}

	w.rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

	fraction := w.ruinMin + w.rng.Float64()*(w.ruinMax-w.ruinMin)
	n := int(float64(len(items)) * fraction)
	if n == 0 && len(items) > 0 && fraction > 0 {
		n = 1
	}

	for _, it := range items[:n] {
		updates, err := p.RemoveNode(it.layoutID, it.nodeID)
		if err != nil {
			continue
		}
		enum.Invalidate(it.layoutID, updates)
	}
}
