package shard

import (
	"testing"

	"github.com/stretchr/testify/require"

	gethmetrics "github.com/luxfi/geth/metrics"
	"github.com/luxfi/paybatch/internal/metrics"
	"github.com/luxfi/paybatch/internal/model"
	"github.com/luxfi/paybatch/internal/money"
)

func amt(t *testing.T, s string) money.Decimal {
	t.Helper()
	d, err := money.Parse(s)
	require.NoError(t, err)
	return d
}

func TestEngineAppliesOperationsInOrder(t *testing.T) {
	in := make(chan model.Operation, 10)
	e := New(0, in, nil)

	in <- model.Operation{Kind: model.Deposit, Client: 1, Tx: 1, Amount: amt(t, "10")}
	in <- model.Operation{Kind: model.Deposit, Client: 1, Tx: 2, Amount: amt(t, "5")}
	in <- model.Operation{Kind: model.Withdrawal, Client: 1, Tx: 3, Amount: amt(t, "3")}
	close(in)

	e.Run()

	var snaps []model.AccountSnapshot
	require.NoError(t, e.Report(func(s model.AccountSnapshot) error {
		snaps = append(snaps, s)
		return nil
	}))

	require.Len(t, snaps, 1)
	require.Equal(t, model.ClientId(1), snaps[0].Client)
	require.True(t, snaps[0].Available.Equal(amt(t, "12")))
	require.True(t, snaps[0].Held.Equal(money.Zero))
}

func TestEngineOwnsDisjointClients(t *testing.T) {
	in := make(chan model.Operation, 10)
	e := New(0, in, nil)

	in <- model.Operation{Kind: model.Deposit, Client: 1, Tx: 1, Amount: amt(t, "10")}
	in <- model.Operation{Kind: model.Deposit, Client: 2, Tx: 2, Amount: amt(t, "20")}
	in <- model.Operation{Kind: model.Dispute, Client: 1, Tx: 1}
	close(in)

	e.Run()

	byClient := map[model.ClientId]model.AccountSnapshot{}
	require.NoError(t, e.Report(func(s model.AccountSnapshot) error {
		byClient[s.Client] = s
		return nil
	}))

	require.Len(t, byClient, 2)
	require.True(t, byClient[1].Held.Equal(amt(t, "10")))
	require.True(t, byClient[1].Available.Equal(money.Zero))
	require.True(t, byClient[2].Available.Equal(amt(t, "20")))
	require.True(t, byClient[2].Held.Equal(money.Zero))
}

func TestEngineReportStopsOnSinkError(t *testing.T) {
	in := make(chan model.Operation, 10)
	e := New(0, in, nil)

	in <- model.Operation{Kind: model.Deposit, Client: 1, Tx: 1, Amount: amt(t, "10")}
	in <- model.Operation{Kind: model.Deposit, Client: 2, Tx: 2, Amount: amt(t, "10")}
	close(in)
	e.Run()

	sentinel := &boomErr{}
	err := e.Report(func(model.AccountSnapshot) error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
}

type boomErr struct{}

func (*boomErr) Error() string { return "boom" }

func TestEngineRecordsMetrics(t *testing.T) {
	in := make(chan model.Operation, 10)
	run := metrics.NewRun(1)
	e := New(0, in, run)

	in <- model.Operation{Kind: model.Deposit, Client: 1, Tx: 1, Amount: amt(t, "10")}
	in <- model.Operation{Kind: model.Deposit, Client: 2, Tx: 2, Amount: amt(t, "10")}
	close(in)
	e.Run()

	require.NoError(t, e.Report(func(model.AccountSnapshot) error { return nil }))

	gauge, ok := run.Registry().Get("paybatch/shard/0/queue_depth").(*gethmetrics.Gauge)
	require.True(t, ok, "Run wires a queue-depth gauge for shard 0")
	require.EqualValues(t, 0, gauge.Snapshot().Value(), "queue depth must read 0 once the shard has fully drained")
}

// TestEngineChannelHoldsBacklogBeforeRun confirms the backlog is still
// present on the channel when Run starts consuming it, so the per-iteration
// SetShardQueueDepth call has a genuine nonzero value to sample rather than
// only ever seeing an already-drained channel, and that the gauge reads 0
// once Run has drained it.
func TestEngineChannelHoldsBacklogBeforeRun(t *testing.T) {
	in := make(chan model.Operation, 10)
	run := metrics.NewRun(1)
	e := New(0, in, run)

	const backlog = 4
	for i := 0; i < backlog; i++ {
		in <- model.Operation{Kind: model.Deposit, Client: model.ClientId(i), Tx: model.TxId(i), Amount: amt(t, "1")}
	}
	close(in)

	// len() on a channel reflects its buffered element count at the time
	// of the call; immediately before Run starts draining, it still holds
	// the full backlog, confirming the channel itself (not just the
	// gauge) has something nonzero for the first iteration to sample.
	require.Equal(t, backlog, len(in))

	e.Run()

	gauge, ok := run.Registry().Get("paybatch/shard/0/queue_depth").(*gethmetrics.Gauge)
	require.True(t, ok)
	require.EqualValues(t, 0, gauge.Snapshot().Value())
}
