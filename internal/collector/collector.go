// Package collector implements the global collector (spec.md §4.G): it owns
// the authoritative material-cost bound, tracks the best solution found by
// any worker, and decides when to broadcast Terminate. Grounded on the
// scheduler's monitor-ticker shape (internal/scheduler.sourceEventLoop),
// generalized from task refresh to solution aggregation.
package collector

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/g2dcsp/solver/internal/collector/messages"
	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/g2dcsp/solver/pkg/problem"
	"github.com/g2dcsp/solver/pkg/telemetry"
	"github.com/g2dcsp/solver/pkg/utils"
)

var collectorTracer = otel.Tracer("g2dcsp-solver/collector")

// MonitorInterval is the collector's poll period (spec.md §4.G "every
// monitor interval (100 ms)").
const MonitorInterval = 100 * time.Millisecond

// WorkerHandle is everything the collector needs to broadcast to and track
// one worker.
type WorkerHandle struct {
	ID    int
	Inbox chan<- messages.CollectorSync
}

// Collector aggregates worker reports and owns the shared material_limit
// (spec.md §4.G). It is single-threaded: one goroutine runs Run.
type Collector struct {
	workers    []WorkerHandle
	comparator geometry.Comparator
	maxRunTime time.Duration
	clock      utils.Clock
	logger     utils.Logger

	inbox <-chan messages.WorkerReport

	materialLimit int64

	bestComplete   *problem.Solution
	haveComplete   bool
	bestIncomplete *problem.Solution
	incompleteCost geometry.Cost
	haveIncomplete bool
}

// New builds a Collector. inbox is shared by every worker; workers is the
// set of outbound handles the collector broadcasts SyncMatLimit/Terminate
// to.
func New(workers []WorkerHandle, inbox <-chan messages.WorkerReport, comparator geometry.Comparator, maxRunTime time.Duration, clock utils.Clock, logger utils.Logger) *Collector {
	if clock == nil {
		clock = utils.NewRealClock()
	}
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}
	return &Collector{
		workers:       workers,
		comparator:    comparator,
		maxRunTime:    maxRunTime,
		clock:         clock,
		logger:        logger,
		inbox:         inbox,
		materialLimit: math.MaxInt64,
	}
}

// Run drains reports and re-evaluates termination conditions every
// MonitorInterval until the deadline passes or stop fires (an OS
// interrupt). Worker exit is not observed: those two triggers are the only
// ones. It blocks until termination has been broadcast and returns the best
// solution found.
func (c *Collector) Run(stop <-chan struct{}) *problem.Solution {
	deadline := c.clock.Now().Add(c.maxRunTime)
	ticker := c.clock.NewTicker(MonitorInterval)
	defer ticker.Stop()

	ctx := context.Background()

	for {
		select {
		case report := <-c.inbox:
			c.handleReport(report)
		case <-ticker.C:
			c.monitorTick(ctx, deadline)
			if c.clock.Now().After(deadline) {
				c.logger.Info("collector: max run time reached, terminating")
				c.broadcastTerminate()
				return c.best()
			}
		case <-stop:
			c.logger.Info("collector: stop requested, terminating")
			c.broadcastTerminate()
			return c.best()
		}
	}
}

// monitorTick opens a span recording the collector's state as of this poll,
// when telemetry is enabled.
func (c *Collector) monitorTick(ctx context.Context, deadline time.Time) {
	if !telemetry.Enabled() {
		return
	}
	_, span := collectorTracer.Start(ctx, "solver.monitor_tick", trace.WithAttributes(
		attribute.Int64("material_limit", c.materialLimit),
		attribute.Bool("have_complete", c.haveComplete),
		attribute.Int64("remaining_ms", deadline.Sub(c.clock.Now()).Milliseconds()),
	))
	defer span.End()
}

func (c *Collector) handleReport(report messages.WorkerReport) {
	switch report.Kind {
	case messages.NewCompleteSolution:
		if report.Solution.Cost.MaterialCost >= c.materialLimit {
			return
		}
		c.haveComplete = true
		c.bestComplete = report.Solution
		c.bestIncomplete = nil
		c.haveIncomplete = false
		c.materialLimit = report.Solution.Cost.MaterialCost
		c.logger.Info("collector: new best complete solution, material_cost=%d", c.materialLimit)
		c.broadcastMatLimit(c.materialLimit)

	case messages.NewIncompleteStats:
		if c.haveComplete {
			return
		}
		if !c.haveIncomplete || c.comparator(costFromStats(report.Stats), c.incompleteCost) < 0 {
			c.haveIncomplete = true
			c.incompleteCost = costFromStats(report.Stats)
		}

	case messages.NewIncompleteSolution:
		if c.haveComplete {
			return
		}
		if !c.haveIncomplete || c.comparator(report.Solution.Cost, c.incompleteCost) < 0 {
			c.haveIncomplete = true
			c.incompleteCost = report.Solution.Cost
			c.bestIncomplete = report.Solution
		}
	}
}

func costFromStats(s *messages.SolutionStats) geometry.Cost {
	return geometry.Cost{MaterialCost: s.MaterialCost, PartAreaExcluded: s.PartAreaExcluded}
}

func (c *Collector) broadcastMatLimit(limit int64) {
	for _, w := range c.workers {
		select {
		case w.Inbox <- messages.MatLimit(limit):
		default:
			c.logger.Warn("collector: worker %d inbox full, dropping SyncMatLimit", w.ID)
		}
	}
}

func (c *Collector) broadcastTerminate() {
	for _, w := range c.workers {
		w.Inbox <- messages.TerminateMsg()
	}
}

// best returns the best solution known: the best complete one if any,
// otherwise the best incomplete snapshot seen (which may be nil if no
// worker ever reported one).
func (c *Collector) best() *problem.Solution {
	if c.haveComplete {
		return c.bestComplete
	}
	return c.bestIncomplete
}
