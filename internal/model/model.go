// Package model holds the value types exchanged across the core's
// boundaries: the parsed Operation produced by the record reader, and the
// AccountSnapshot consumed by the output sink.
package model

import "github.com/luxfi/paybatch/internal/money"

// ClientId identifies an account. The input format carries it as an
// unsigned 16-bit integer.
type ClientId uint16

// TxId identifies a deposit for dispute purposes. Unique per client, not
// globally; the same TxId may legitimately appear under different clients.
type TxId uint32

// OpKind is the tag of an Operation.
type OpKind uint8

const (
	Deposit OpKind = iota
	Withdrawal
	Dispute
	Resolve
	Chargeback
)

// String returns the lowercase record-format spelling of k.
func (k OpKind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case Dispute:
		return "dispute"
	case Resolve:
		return "resolve"
	case Chargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// HasAmount reports whether operations of kind k carry an amount field.
func (k OpKind) HasAmount() bool {
	return k == Deposit || k == Withdrawal
}

// DisputeState is the lifecycle state of a recorded deposit.
type DisputeState uint8

const (
	Undisputed DisputeState = iota
	Disputed
	ChargedBack
)

func (s DisputeState) String() string {
	switch s {
	case Undisputed:
		return "undisputed"
	case Disputed:
		return "disputed"
	case ChargedBack:
		return "charged_back"
	default:
		return "unknown"
	}
}

// Operation is one parsed input record. It is produced once by the record
// reader and consumed exactly once by a ShardEngine.
type Operation struct {
	Kind   OpKind
	Client ClientId
	Tx     TxId
	Amount money.Decimal // zero value when Kind.HasAmount() is false
}

// AccountSnapshot is the finalized, reportable state of one account,
// produced once per owned client when a ShardEngine drains.
type AccountSnapshot struct {
	Client    ClientId
	Available money.Decimal
	Held      money.Decimal
	Total     money.Decimal
	Locked    bool
}
