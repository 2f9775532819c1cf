// Package shard implements the per-shard account engine: the worker that
// owns a disjoint subset of clients, applies their operations in arrival
// order, and reports a snapshot per owned account once its input channel
// drains. One Engine owns its set of ClientIds exclusively for the run's
// lifetime, so no other goroutine ever touches its accounts map.
package shard

import (
	"github.com/luxfi/paybatch/internal/account"
	"github.com/luxfi/paybatch/internal/log"
	"github.com/luxfi/paybatch/internal/metrics"
	"github.com/luxfi/paybatch/internal/model"
)

// Engine is a single-consumer worker over one delivery channel. It is
// never accessed from more than one goroutine, so its account map needs
// no lock.
type Engine struct {
	id       int
	in       <-chan model.Operation
	accounts map[model.ClientId]*account.State
	metrics  *metrics.Run
}

// New returns an Engine reading from in. metrics may be nil, in which
// case no run statistics are recorded.
func New(id int, in <-chan model.Operation, m *metrics.Run) *Engine {
	return &Engine{
		id:       id,
		in:       in,
		accounts: make(map[model.ClientId]*account.State),
		metrics:  m,
	}
}

// Run applies every operation received on the Engine's channel, in
// arrival order, until the channel is closed (end-of-input). It creates
// an account lazily on first reference and never fails: every operation
// that reaches a shard is well-formed by construction (the record reader
// rejected anything malformed upstream), and internal/account never
// rejects a well-formed operation — it only ever silently ignores
// anomalous ones.
func (e *Engine) Run() {
	for op := range e.in {
		if e.metrics != nil {
			// Sampled here, not in Report: by Report time the channel is
			// closed and drained, so len(e.in) would always read zero.
			e.metrics.SetShardQueueDepth(e.id, int64(len(e.in)))
		}
		acct, ok := e.accounts[op.Client]
		if !ok {
			acct = account.New(op.Client)
			e.accounts[op.Client] = acct
			log.Debug("shard: new account", "shard", e.id, "client", op.Client)
		}
		acct.Apply(op)
		if e.metrics != nil {
			e.metrics.OpApplied()
		}
	}
	if e.metrics != nil {
		e.metrics.SetShardQueueDepth(e.id, 0)
	}
	log.Debug("shard: drained", "shard", e.id, "accounts", len(e.accounts))
}

// Report pushes a snapshot of every owned account to emit, in Go's
// unspecified map-iteration order; cross-shard output order is not
// otherwise constrained. It stops and returns the first error emit
// returns.
func (e *Engine) Report(emit func(model.AccountSnapshot) error) error {
	for _, acct := range e.accounts {
		if err := emit(acct.Snapshot()); err != nil {
			return err
		}
	}
	if e.metrics != nil {
		e.metrics.AddAccountsTouched(int64(len(e.accounts)))
	}
	log.Info("shard: reported", "shard", e.id, "accounts", len(e.accounts))
	return nil
}
