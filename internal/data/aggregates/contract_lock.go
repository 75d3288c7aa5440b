package aggregates

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

const numContractShards = 64

// ContractLocks serializes writers of the same contract inside one process.
// Row locks cover writers in other processes; this keeps two local
// regenerations from both reading the same version before either commits.
// Each shard is a weight-1 semaphore so a waiter can give up when its
// context ends.
type ContractLocks struct {
	shards [numContractShards]*semaphore.Weighted
}

func NewContractLocks() *ContractLocks {
	l := &ContractLocks{}
	for i := range l.shards {
		l.shards[i] = semaphore.NewWeighted(1)
	}
	return l
}

// Lock waits for the contract's shard or for ctx to end. The returned func
// releases the shard and is safe to call more than once.
func (l *ContractLocks) Lock(ctx context.Context, contractID uuid.UUID) (func(), error) {
	sem := l.shards[shardOf(contractID)]
	if err := sem.Acquire(ctx, 1); err != nil {
		return func() {}, err
	}
	var once sync.Once
	return func() { once.Do(func() { sem.Release(1) }) }, nil
}

func shardOf(id uuid.UUID) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(id[:])
	return h.Sum32() % numContractShards
}
