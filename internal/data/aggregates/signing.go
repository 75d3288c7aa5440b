package aggregates

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	planner "github.com/yungbote/qualiopi-backend/internal/modules/compliance"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

// OutsidePeriodLabel labels snapshots signed outside every generated period.
const OutsidePeriodLabel = "Hors période"

type SigningAggregateDeps struct {
	Base        BaseDeps
	Contracts   repos.ContractRepo
	Periods     repos.PeriodRepo
	Evaluations repos.EvaluationRepo
	Snapshots   repos.SnapshotRepo
	Audit       repos.AuditRepo
}

type signingAggregate struct {
	deps SigningAggregateDeps
}

func NewSigningAggregate(deps SigningAggregateDeps) domainagg.SigningAggregate {
	deps.Base = deps.Base.withDefaults()
	return &signingAggregate{deps: deps}
}

func (a *signingAggregate) Contract() domainagg.Contract {
	return domainagg.SigningAggregateContract
}

// snapshotData is the archived payload of one signed contract.
type snapshotData struct {
	ContractID    uuid.UUID   `json:"contractId"`
	ApprenticeID  uuid.UUID   `json:"apprenticeId"`
	FrameworkID   uuid.UUID   `json:"frameworkId"`
	PlanVersion   string      `json:"planVersion"`
	PeriodLabel   string      `json:"periodLabel"`
	ValidatorID   uuid.UUID   `json:"validatorId"`
	ValidatorName string      `json:"validatorName"`
	SignedAt      time.Time   `json:"signedAt"`
	EvaluationIDs []uuid.UUID `json:"evaluationIds"`
	IndicatorIDs  []uuid.UUID `json:"indicatorIds"`
}

func (a *signingAggregate) SignBatch(ctx context.Context, in domainagg.SignBatchInput) (domainagg.SignBatchResult, error) {
	const op = "Compliance.SigningAggregate.SignBatch"
	out := domainagg.SignBatchResult{}

	if in.FrameworkID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing framework id", nil)
	}
	if len(in.ApprenticeIDs) == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "apprenticeIds must not be empty", nil)
	}
	if in.ValidatorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing validator id", nil)
	}
	signedAt := utcNow(in.SignedAt)
	validatorName := strings.TrimSpace(in.ValidatorName)
	if validatorName == "" {
		validatorName = in.ValidatorID.String()
	}

	if in.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.Timeout)
		defer cancel()
	}

	err := executeWriteIsolated(ctx, a.deps.Base, op, domainagg.SigningAggregateContract.Isolation, func(dbc dbctx.Context) error {
		contracts, err := a.deps.Contracts.LockByFilter(dbc, repos.ContractFilter{
			FrameworkID:   &in.FrameworkID,
			ApprenticeIDs: in.ApprenticeIDs,
		})
		if err != nil {
			return err
		}
		if len(contracts) == 0 {
			return domainagg.NewError(domainagg.CodeNotFound, op, "no contract matches the framework and apprentices", nil)
		}
		contractIDs := make([]uuid.UUID, 0, len(contracts))
		for _, c := range contracts {
			contractIDs = append(contractIDs, c.ID)
		}

		signable, err := a.deps.Evaluations.LockSignable(dbc, contractIDs)
		if err != nil {
			return err
		}
		byContract := make(map[uuid.UUID][]*types.EvaluationRecord, len(contracts))
		ids := make([]uuid.UUID, 0, len(signable))
		for _, e := range signable {
			byContract[e.ContractID] = append(byContract[e.ContractID], e)
			ids = append(ids, e.ID)
		}
		signed, err := a.deps.Evaluations.SignByIDs(dbc, ids, repos.SignStamp{
			SignedAt:    signedAt,
			Comment:     fmt.Sprintf("Signé en lot par %s", validatorName),
			ValidatorID: in.ValidatorID,
		})
		if err != nil {
			return err
		}

		for _, c := range contracts {
			periods, err := a.deps.Periods.ListByContract(dbc, c.ID)
			if err != nil {
				return err
			}
			flat := make([]types.Period, 0, len(periods))
			for _, p := range periods {
				flat = append(flat, *p)
			}
			label := planner.CurrentPeriodLabel(flat, signedAt, OutsidePeriodLabel)

			data := snapshotData{
				ContractID:    c.ID,
				ApprenticeID:  c.ApprenticeID,
				FrameworkID:   c.FrameworkID,
				PlanVersion:   compliance.FormatVersion(c.Version),
				PeriodLabel:   label,
				ValidatorID:   in.ValidatorID,
				ValidatorName: validatorName,
				SignedAt:      signedAt,
				EvaluationIDs: []uuid.UUID{},
				IndicatorIDs:  []uuid.UUID{},
			}
			for _, e := range byContract[c.ID] {
				data.EvaluationIDs = append(data.EvaluationIDs, e.ID)
				data.IndicatorIDs = append(data.IndicatorIDs, e.IndicatorID)
			}
			raw, err := json.Marshal(data)
			if err != nil {
				return err
			}
			sum := sha256.Sum256(raw)
			if _, err := a.deps.Snapshots.Create(dbc, &types.SnapshotReport{
				ContractID:       c.ID,
				Type:             compliance.SnapshotBatchSign,
				PeriodLabel:      label,
				Data:             datatypes.JSON(raw),
				VerificationHash: hex.EncodeToString(sum[:]),
				AuthorID:         in.ValidatorID,
				CreatedAt:        signedAt,
			}); err != nil {
				return err
			}
		}

		apprentices := make([]string, 0, len(in.ApprenticeIDs))
		for _, id := range in.ApprenticeIDs {
			apprentices = append(apprentices, id.String())
		}
		validator := in.ValidatorID
		entry, err := appendAudit(dbc, a.deps.Audit, compliance.AuditBatchSign, "framework", in.FrameworkID.String(), &validator, signedAt, map[string]any{
			"frameworkId":   in.FrameworkID.String(),
			"apprenticeIds": apprentices,
			"contracts":     len(contracts),
			"count":         signed,
		})
		if err != nil {
			return err
		}

		out = domainagg.SignBatchResult{
			FrameworkID:  in.FrameworkID,
			ContractIDs:  contractIDs,
			Signed:       signed,
			Snapshots:    len(contracts),
			AuditEntryID: entry.ID,
			SignedAt:     signedAt,
		}
		return nil
	})
	if err != nil {
		return domainagg.SignBatchResult{}, err
	}
	return out, nil
}
