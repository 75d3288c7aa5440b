package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

var PlanAggregateContract = Contract{
	Name:             "Compliance.PlanAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Isolation:        IsolationSerializable,
	Notes:            "Owns contract plan versioning, period/mapping replacement and the TSF lock, serialized per contract.",
}

// PlanAggregate owns the training plan of a contract.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
type PlanAggregate interface {
	Aggregate

	// InitializeJourney replaces the contract's periods and mappings with a
	// freshly generated plan and advances the version.
	InitializeJourney(ctx context.Context, in InitializeJourneyInput) (InitializeJourneyResult, error)

	// LockTSF signs and locks the current plan. Locking twice overwrites.
	LockTSF(ctx context.Context, in LockTSFInput) (LockTSFResult, error)

	// SetTeachingSite sets (or cycles, when Site is nil) a mapping's site.
	SetTeachingSite(ctx context.Context, in SetTeachingSiteInput) (SetTeachingSiteResult, error)
}

type InitializeJourneyInput struct {
	ContractID uuid.UUID
	PeriodType compliance.PeriodType
	ActorID    *uuid.UUID
	Now        time.Time
}

type InitializeJourneyResult struct {
	ContractID      uuid.UUID
	PreviousVersion int
	Version         int
	Regenerated     bool
	IsLocked        bool
	TsfStatus       string
	ChangeLog       string
	Periods         int
	Mappings        int
}

type LockTSFInput struct {
	ContractID uuid.UUID
	Signature  string
	ActorID    *uuid.UUID
	LockedAt   time.Time
}

type LockTSFResult struct {
	ContractID uuid.UUID
	Version    int
	TsfStatus  string
	LockedAt   time.Time
}

type SetTeachingSiteInput struct {
	MappingID uuid.UUID
	Site      *compliance.TeachingSite
	ActorID   *uuid.UUID
}

type SetTeachingSiteResult struct {
	MappingID uuid.UUID
	Previous  compliance.TeachingSite
	Site      compliance.TeachingSite
}
