package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var MilestoneAggregateContract = Contract{
	Name:             "Compliance.MilestoneAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Isolation:        IsolationDefault,
	Notes:            "Creates missing regulatory milestones and completes them; never replaces existing rows.",
}

// MilestoneAggregate owns milestone creation and completion.
type MilestoneAggregate interface {
	Aggregate

	// SyncMilestones creates the milestones whose type is not yet present.
	SyncMilestones(ctx context.Context, in SyncMilestonesInput) (SyncMilestonesResult, error)

	// CompleteMilestone marks a milestone COMPLETED. Completing twice is a no-op.
	CompleteMilestone(ctx context.Context, in CompleteMilestoneInput) (CompleteMilestoneResult, error)
}

type SyncMilestonesInput struct {
	ContractID uuid.UUID
}

type SyncMilestonesResult struct {
	ContractID uuid.UUID
	Created    []string
	Existing   int
}

type CompleteMilestoneInput struct {
	MilestoneID uuid.UUID
	ActorID     *uuid.UUID
	CompletedAt time.Time
}

type CompleteMilestoneResult struct {
	MilestoneID      uuid.UUID
	ContractID       uuid.UUID
	Status           string
	CompletedAt      time.Time
	AlreadyCompleted bool
}
