package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g2dcsp/solver/internal/collector/messages"
	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/g2dcsp/solver/pkg/problem"
)

func mustComparator(t *testing.T) geometry.Comparator {
	cmp, err := geometry.MatThenArea.Resolve()
	require.NoError(t, err)
	return cmp
}

func TestCollector_AcceptsBetterCompleteSolutionAndBroadcastsLimit(t *testing.T) {
	workerInbox := make(chan messages.CollectorSync, 4)
	inbox := make(chan messages.WorkerReport, 4)
	c := New([]WorkerHandle{{ID: 1, Inbox: workerInbox}}, inbox, mustComparator(t), time.Hour, nil, nil)

	sol := &problem.Solution{Cost: geometry.Cost{MaterialCost: 50}, Complete: true}
	inbox <- messages.CompleteSolution(1, sol)

	stop := make(chan struct{})
	done := make(chan *problem.Solution)
	go func() { done <- c.Run(stop) }()
	time.Sleep(20 * time.Millisecond)
	close(stop)

	result := <-done
	require.NotNil(t, result)
	assert.Equal(t, int64(50), result.Cost.MaterialCost)

	select {
	case sync := <-workerInbox:
		// The report is buffered before Run starts, so the collector
		// handles it and sends SyncMatLimit before stop closes; the
		// Terminate broadcast follows it in the channel.
		if sync.Kind != messages.Terminate {
			sync2 := <-workerInbox
			assert.Equal(t, messages.Terminate, sync2.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a sync message to the worker")
	}
}

func TestCollector_RejectsCompleteSolutionAtOrAboveLimit(t *testing.T) {
	workerInbox := make(chan messages.CollectorSync, 4)
	inbox := make(chan messages.WorkerReport, 4)
	c := New([]WorkerHandle{{ID: 1, Inbox: workerInbox}}, inbox, mustComparator(t), time.Hour, nil, nil)

	first := &problem.Solution{Cost: geometry.Cost{MaterialCost: 50}, Complete: true}
	second := &problem.Solution{Cost: geometry.Cost{MaterialCost: 60}, Complete: true}
	inbox <- messages.CompleteSolution(1, first)
	inbox <- messages.CompleteSolution(1, second)

	stop := make(chan struct{})
	done := make(chan *problem.Solution)
	go func() { done <- c.Run(stop) }()
	time.Sleep(20 * time.Millisecond)
	close(stop)

	result := <-done
	assert.Equal(t, int64(50), result.Cost.MaterialCost)
}

func TestCollector_TracksBestIncompleteUntilComplete(t *testing.T) {
	workerInbox := make(chan messages.CollectorSync, 4)
	inbox := make(chan messages.WorkerReport, 4)
	c := New([]WorkerHandle{{ID: 1, Inbox: workerInbox}}, inbox, mustComparator(t), time.Hour, nil, nil)

	inbox <- messages.IncompleteStats(1, messages.SolutionStats{MaterialCost: 10, PartAreaExcluded: 100})
	inbox <- messages.IncompleteStats(1, messages.SolutionStats{MaterialCost: 10, PartAreaExcluded: 40})

	stop := make(chan struct{})
	done := make(chan *problem.Solution)
	go func() { done <- c.Run(stop) }()
	time.Sleep(20 * time.Millisecond)
	close(stop)

	result := <-done
	assert.Nil(t, result) // stats-only reports never populate a full snapshot
}
