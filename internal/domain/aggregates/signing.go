package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var SigningAggregateContract = Contract{
	Name:             "Compliance.SigningAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Isolation:        IsolationSerializable,
	Notes:            "Signs acquired evaluations, archives one snapshot per contract and one audit entry, all or nothing.",
}

// SigningAggregate owns the batch signature transition.
type SigningAggregate interface {
	Aggregate

	SignBatch(ctx context.Context, in SignBatchInput) (SignBatchResult, error)
}

type SignBatchInput struct {
	FrameworkID   uuid.UUID
	ApprenticeIDs []uuid.UUID
	ValidatorID   uuid.UUID
	ValidatorName string
	SignedAt      time.Time
	// Timeout bounds the whole transaction; zero means no extra deadline.
	Timeout time.Duration
}

type SignBatchResult struct {
	FrameworkID  uuid.UUID
	ContractIDs  []uuid.UUID
	Signed       int64
	Snapshots    int
	AuditEntryID uuid.UUID
	SignedAt     time.Time
}
