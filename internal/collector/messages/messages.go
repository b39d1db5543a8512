// Package messages defines the two typed sync channels that connect R&R
// workers to the global collector (spec.md §4.H). Both directions are FIFO
// channels that the caller creates with a fixed buffer, not unbounded
// queues: a worker's report send blocks while the shared report channel is
// full, the collector drops a SyncMatLimit for a worker whose inbox is full,
// and its Terminate send blocks until that inbox has room.
package messages

import "github.com/g2dcsp/solver/pkg/problem"

// ReportKind discriminates a WorkerReport's populated fields, mirroring the
// source aggregator's SourceType/TaskEvent split of a single tagged struct
// rather than a type per message.
type ReportKind uint8

const (
	// NewCompleteSolution reports a fully-placed solution found this
	// iteration (spec.md §4.F Evaluate).
	NewCompleteSolution ReportKind = iota
	// NewIncompleteStats reports only the improved Cost of an incomplete
	// solution, without the (larger) solution payload.
	NewIncompleteStats
	// NewIncompleteSolution periodically reports a full incomplete
	// solution snapshot.
	NewIncompleteSolution
)

// WorkerReport is one message a worker sends to the collector.
type WorkerReport struct {
	WorkerID int
	Kind     ReportKind

	// Solution is populated for NewCompleteSolution and
	// NewIncompleteSolution.
	Solution *problem.Solution

	// Stats is populated for NewIncompleteStats; carries just the cost,
	// not the full layout tree.
	Stats *SolutionStats
}

// SolutionStats is the lightweight cost-only payload of NewIncompleteStats.
type SolutionStats struct {
	MaterialCost     int64
	PartAreaExcluded int64
}

// CompleteSolution builds a NewCompleteSolution report.
func CompleteSolution(workerID int, sol *problem.Solution) WorkerReport {
	return WorkerReport{WorkerID: workerID, Kind: NewCompleteSolution, Solution: sol}
}

// IncompleteStats builds a NewIncompleteStats report.
func IncompleteStats(workerID int, stats SolutionStats) WorkerReport {
	return WorkerReport{WorkerID: workerID, Kind: NewIncompleteStats, Stats: &stats}
}

// IncompleteSolution builds a NewIncompleteSolution report.
func IncompleteSolution(workerID int, sol *problem.Solution) WorkerReport {
	return WorkerReport{WorkerID: workerID, Kind: NewIncompleteSolution, Solution: sol}
}

// SyncKind discriminates a CollectorSync message.
type SyncKind uint8

const (
	// SyncMatLimit lowers the advisory material-cost upper bound.
	SyncMatLimit SyncKind = iota
	// Terminate instructs the worker to exit its loop and drop its Problem.
	Terminate
)

// CollectorSync is one message the collector broadcasts to every worker.
type CollectorSync struct {
	Kind         SyncKind
	MaterialCost int64 // meaningful only when Kind == SyncMatLimit
}

// MatLimit builds a SyncMatLimit message.
func MatLimit(cost int64) CollectorSync {
	return CollectorSync{Kind: SyncMatLimit, MaterialCost: cost}
}

// TerminateMsg builds a Terminate message.
func TerminateMsg() CollectorSync {
	return CollectorSync{Kind: Terminate}
}
