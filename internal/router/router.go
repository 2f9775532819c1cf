// Package router partitions a stream of operations across a fixed number
// of shards by client identity, so that every operation for a given
// client is forwarded to the same shard channel, in the order it was
// received.
//
// The hashing scheme is adapted from the consistent-hash-mod-shard-count
// idiom in the pack's txpool sharding reference
// (other_examples/.../eth2030/pkg-txpool-sharding.go), generalized from
// hashing a transaction hash to hashing a ClientId.
package router

import (
	"github.com/luxfi/paybatch/internal/model"
)

// fibHashMultiplier is a fixed odd 32-bit constant used for Fibonacci
// hashing; it need not be secret or cryptographic, only well-distributed.
const fibHashMultiplier = 2654435769

// Router forwards parsed operations to one of a fixed set of shard
// channels, keyed by a deterministic hash of the client identity.
type Router struct {
	shards []chan<- model.Operation
}

// New returns a Router that distributes across the given shard channels.
// The channel order is the shard index order.
func New(shards []chan<- model.Operation) *Router {
	return &Router{shards: append([]chan<- model.Operation(nil), shards...)}
}

// ShardIndex returns the shard a given client is statically assigned to.
// Deterministic across calls within, and across, runs.
func ShardIndex(client model.ClientId, numShards int) int {
	if numShards <= 1 {
		return 0
	}
	h := (uint32(client) * fibHashMultiplier) >> 16
	return int(h) % numShards
}

// Route sends op to the shard owning op.Client. It blocks if that
// shard's channel is full, providing backpressure on the producer. The
// Router never reorders operations across calls: it forwards op before
// returning, preserving source order per client.
func (r *Router) Route(op model.Operation) {
	idx := ShardIndex(op.Client, len(r.shards))
	r.shards[idx] <- op
}
