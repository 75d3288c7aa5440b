package services

import (
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

const genericFailure = "the operation could not be completed; nothing was changed"

// boundaryError decides what a caller of a mutating operation may see.
// Descriptive failures pass through; everything else is logged with its
// cause and replaced by an opaque transaction_failed error.
func boundaryError(log *logger.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation,
		domainagg.CodeNotFound,
		domainagg.CodeUnauthorized,
		domainagg.CodePreconditionFailed,
		domainagg.CodeConflict:
		return err
	}
	if log != nil {
		log.Error("mutating operation failed", "op", op, "code", string(domainagg.CodeOf(err)), "error", err)
	}
	return domainagg.Opaque(domainagg.CodeTransactionFailed, op, genericFailure)
}

func validationErr(op, msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, op, msg, nil)
}

func notFoundErr(op, msg string) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, msg, nil)
}
