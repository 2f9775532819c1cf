// Package account implements the per-client account state machine: balance
// bookkeeping and the dispute lifecycle of recorded deposits. Each State
// is mutated by exactly one owner, so it needs no internal locking.
package account

import (
	"github.com/luxfi/paybatch/internal/model"
	"github.com/luxfi/paybatch/internal/money"
)

// deposit is the record kept for a successful Deposit operation.
type deposit struct {
	amount money.Decimal
	state  model.DisputeState
}

// State is one client's account: available/held balances, the lock flag,
// and the ledger of disputable deposits. It is reachable only from the
// ShardEngine that owns it, so none of its methods take a lock.
type State struct {
	Client    model.ClientId
	Available money.Decimal
	Held      money.Decimal
	Locked    bool

	deposits map[model.TxId]*deposit
}

// New returns a freshly zeroed account for client.
func New(client model.ClientId) *State {
	return &State{
		Client:   client,
		deposits: make(map[model.TxId]*deposit),
	}
}

// Deposit records tx as a new deposit of amount and credits Available.
// A duplicate TxId is silently ignored. Permitted even when Locked.
func (s *State) Deposit(tx model.TxId, amount money.Decimal) {
	if _, exists := s.deposits[tx]; exists {
		return
	}
	s.deposits[tx] = &deposit{amount: amount, state: model.Undisputed}
	s.Available = s.Available.Add(amount)
}

// Withdraw debits Available by amount, unless the account is locked or
// funds are insufficient. Withdrawals are not tracked by TxId: they leave
// no record for later dispute.
func (s *State) Withdraw(_ model.TxId, amount money.Decimal) {
	if s.Locked {
		return
	}
	if s.Available.LessThan(amount) {
		return
	}
	s.Available = s.Available.Sub(amount)
}

// Dispute moves a deposit's amount from Available to Held. A no-op if tx
// is unknown or not currently Undisputed. May drive Available negative;
// that is intentional. Permitted even when Locked.
func (s *State) Dispute(tx model.TxId) {
	d, ok := s.deposits[tx]
	if !ok || d.state != model.Undisputed {
		return
	}
	d.state = model.Disputed
	s.Available = s.Available.Sub(d.amount)
	s.Held = s.Held.Add(d.amount)
}

// Resolve returns a disputed deposit's amount from Held to Available. A
// no-op if tx is unknown, not currently Disputed, or its amount exceeds
// current Held (a defensive guard the invariants should make unreachable).
func (s *State) Resolve(tx model.TxId) {
	d, ok := s.deposits[tx]
	if !ok || d.state != model.Disputed {
		return
	}
	if d.amount.GreaterThan(s.Held) {
		return
	}
	d.state = model.Undisputed
	s.Held = s.Held.Sub(d.amount)
	s.Available = s.Available.Add(d.amount)
}

// Chargeback permanently consumes a disputed deposit's held funds and
// locks the account. A no-op if tx is unknown, not currently Disputed, or
// its amount exceeds current Held. Available is not restored: the funds
// are gone, not returned.
func (s *State) Chargeback(tx model.TxId) {
	d, ok := s.deposits[tx]
	if !ok || d.state != model.Disputed {
		return
	}
	if d.amount.GreaterThan(s.Held) {
		return
	}
	d.state = model.ChargedBack
	s.Held = s.Held.Sub(d.amount)
	s.Locked = true
}

// Apply dispatches op to the matching method. Operations the state
// machine does not recognize are ignored; the record reader never
// produces them.
func (s *State) Apply(op model.Operation) {
	switch op.Kind {
	case model.Deposit:
		s.Deposit(op.Tx, op.Amount)
	case model.Withdrawal:
		s.Withdraw(op.Tx, op.Amount)
	case model.Dispute:
		s.Dispute(op.Tx)
	case model.Resolve:
		s.Resolve(op.Tx)
	case model.Chargeback:
		s.Chargeback(op.Tx)
	}
}

// Snapshot returns the immutable, reportable view of s.
func (s *State) Snapshot() model.AccountSnapshot {
	return model.AccountSnapshot{
		Client:    s.Client,
		Available: s.Available,
		Held:      s.Held,
		Total:     s.Available.Add(s.Held),
		Locked:    s.Locked,
	}
}
