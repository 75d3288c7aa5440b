package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type BatchSignInput struct {
	FrameworkID   uuid.UUID
	ApprenticeIDs []uuid.UUID
	ValidatorID   uuid.UUID
}

type SigningService interface {
	BatchSign(ctx context.Context, in BatchSignInput) (domainagg.SignBatchResult, error)
}

type SigningServiceDeps struct {
	Aggregate domainagg.SigningAggregate
	Users     repos.UserRepo
	Metrics   *observability.Metrics
	// The transaction budget is BaseTimeout + PerApprentice per apprentice.
	BaseTimeout   time.Duration
	PerApprentice time.Duration
}

type signingService struct {
	log           *logger.Logger
	agg           domainagg.SigningAggregate
	users         repos.UserRepo
	metrics       *observability.Metrics
	baseTimeout   time.Duration
	perApprentice time.Duration
}

func NewSigningService(baseLog *logger.Logger, deps SigningServiceDeps) SigningService {
	if deps.BaseTimeout <= 0 {
		deps.BaseTimeout = 15 * time.Second
	}
	if deps.PerApprentice <= 0 {
		deps.PerApprentice = time.Second
	}
	return &signingService{
		log:           baseLog.With("service", "SigningService"),
		agg:           deps.Aggregate,
		users:         deps.Users,
		metrics:       deps.Metrics,
		baseTimeout:   deps.BaseTimeout,
		perApprentice: deps.PerApprentice,
	}
}

// Timeout is the transaction budget for n apprentices.
func (s *signingService) Timeout(n int) time.Duration {
	return s.baseTimeout + time.Duration(n)*s.perApprentice
}

func (s *signingService) BatchSign(ctx context.Context, in BatchSignInput) (domainagg.SignBatchResult, error) {
	const op = "SigningService.BatchSign"
	ctx, span := observability.StartSpan(ctx, op,
		attribute.String("framework_id", in.FrameworkID.String()),
		attribute.Int("apprentices", len(in.ApprenticeIDs)),
	)
	defer span.End()

	if len(in.ApprenticeIDs) == 0 {
		return domainagg.SignBatchResult{}, validationErr(op, "apprenticeIds must not be empty")
	}
	validator, err := s.users.GetByID(dbctx.Context{Ctx: ctx}, in.ValidatorID)
	if err != nil {
		return domainagg.SignBatchResult{}, boundaryError(s.log, op, err)
	}
	if validator == nil {
		return domainagg.SignBatchResult{}, notFoundErr(op, "validator not found")
	}

	res, err := s.agg.SignBatch(ctx, domainagg.SignBatchInput{
		FrameworkID:   in.FrameworkID,
		ApprenticeIDs: in.ApprenticeIDs,
		ValidatorID:   validator.ID,
		ValidatorName: validator.FullName(),
		Timeout:       s.Timeout(len(in.ApprenticeIDs)),
	})
	if err != nil {
		span.RecordError(err)
		return domainagg.SignBatchResult{}, boundaryError(s.log, op, err)
	}
	s.metrics.AddBatchSigned(res.Signed)
	s.log.Info("batch signed",
		"framework_id", in.FrameworkID.String(),
		"validator_id", validator.ID.String(),
		"contracts", len(res.ContractIDs),
		"signed", res.Signed,
	)
	return res, nil
}
