package storage

import (
	"context"
	"encoding/json"
)

type opKind int

const (
	opSet opKind = iota
	opRemove
)

type batchOp struct {
	kind  opKind
	key   string
	value any
}

// Batch accumulates set/remove intents and applies them in enqueue order.
// The queue is cleared only when every operation succeeds; on failure the
// failed operation and everything after it stay queued so a later Execute
// can retry them.
type Batch struct {
	adapter *Adapter
	ops     []batchOp
}

// Batch starts an empty operation batch against this adapter.
func (a *Adapter) Batch() *Batch {
	return &Batch{adapter: a}
}

// Set queues a JSON-encoded write of value under key.
func (b *Batch) Set(key string, value any) *Batch {
	b.ops = append(b.ops, batchOp{kind: opSet, key: key, value: value})
	return b
}

// Remove queues a deletion of key.
func (b *Batch) Remove(key string) *Batch {
	b.ops = append(b.ops, batchOp{kind: opRemove, key: key})
	return b
}

// Len reports how many operations are still queued.
func (b *Batch) Len() int {
	return len(b.ops)
}

// Execute applies the queued operations in order. Returns true and clears
// the queue when all succeed; stops at the first failure, drops only the
// already-applied operations, and returns false.
func (b *Batch) Execute(ctx context.Context) bool {
	a := b.adapter
	for i, op := range b.ops {
		switch op.kind {
		case opSet:
			raw, err := json.Marshal(op.value)
			if err != nil {
				a.log.Error("batch: failed to serialize %s: %v", op.key, err)
				b.ops = b.ops[i:]
				return false
			}
			if err := a.store.Set(ctx, op.key, string(raw)); err != nil {
				a.log.Error("batch: failed to write %s: %v", op.key, err)
				b.ops = b.ops[i:]
				return false
			}
			a.notify(op.key, raw)
		case opRemove:
			if err := a.store.Delete(ctx, op.key); err != nil {
				a.log.Error("batch: failed to remove %s: %v", op.key, err)
				b.ops = b.ops[i:]
				return false
			}
			a.notify(op.key, nil)
		}
	}
	b.ops = nil
	return true
}
