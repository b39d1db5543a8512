package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g2dcsp/solver/internal/collector/messages"
	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/g2dcsp/solver/pkg/instance"
)

func exactFitInstance() *instance.Instance {
	return &instance.Instance{
		Name: "test",
		PartTypes: []instance.PartType{
			{ID: 0, Width: 100, Height: 100, Demand: 1},
		},
		SheetTypes: []instance.SheetType{
			{ID: 0, Width: 100, Height: 100, UnitCost: 10, Stock: 1},
		},
	}
}

func testOptions(id int) Options {
	cmp, err := geometry.MatThenArea.Resolve()
	if err != nil {
		panic(err)
	}
	return Options{
		ID:              id,
		Seed:            1,
		RuinFractionMin: 0.1,
		RuinFractionMax: 0.3,
		Comparator:      cmp,
	}
}

func TestWorker_RunFindsCompleteSolution(t *testing.T) {
	inst := exactFitInstance()
	outbox := make(chan messages.WorkerReport, 100)
	w := New(testOptions(1), inst, outbox, nil, nil)

	done := make(chan struct{})
	go func() {
		w.Run(time.Now().Add(150 * time.Millisecond))
		close(done)
	}()

	var gotComplete bool
	timeout := time.After(3 * time.Second)
drain:
	for {
		select {
		case msg := <-outbox:
			if msg.Kind == messages.NewCompleteSolution {
				gotComplete = true
				require.NotNil(t, msg.Solution)
				assert.True(t, msg.Solution.Complete)
				assert.Equal(t, int64(10), msg.Solution.Cost.MaterialCost)
			}
		case <-done:
			break drain
		case <-timeout:
			t.Fatal("worker did not stop before timeout")
		}
	}
	assert.True(t, gotComplete, "expected at least one complete solution report")
}

func TestWorker_TerminateStopsLoop(t *testing.T) {
	inst := exactFitInstance()
	outbox := make(chan messages.WorkerReport, 100)
	w := New(testOptions(2), inst, outbox, nil, nil)

	done := make(chan struct{})
	go func() {
		w.Run(time.Time{})
		close(done)
	}()

	go func() {
		for range outbox {
		}
	}()

	time.Sleep(20 * time.Millisecond)
	w.Inbox() <- messages.TerminateMsg()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not terminate after Terminate message")
	}
}
