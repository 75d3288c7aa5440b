package aggregates

import (
	"context"
	"strings"
	"time"

	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// maxSerializableAttempts bounds re-runs of a serializable write that lost a
// serialization race.
const maxSerializableAttempts = 3

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	Locks    *ContractLocks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Locks == nil {
		d.Locks = NewContractLocks()
	}
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	return d
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	return executeWriteIsolated(ctx, deps, op, domainagg.IsolationDefault, fn)
}

// executeWriteIsolated runs fn in one transaction at the requested isolation.
// Serializable writes that fail with a retryable code are re-run while the
// context is still live.
func executeWriteIsolated(ctx context.Context, deps BaseDeps, op string, iso domainagg.Isolation, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}

	attempts := 1
	if iso == domainagg.IsolationSerializable {
		attempts = maxSerializableAttempts
	}

	var mapped error
	for i := 0; i < attempts; i++ {
		mapped = MapError(op, runTx(ctx, deps.Runner, iso, fn))
		if mapped == nil || !domainagg.IsCode(mapped, domainagg.CodeRetryable) || ctx.Err() != nil {
			break
		}
		if i < attempts-1 {
			deps.Hooks.IncRetry(op)
		}
	}

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func runTx(ctx context.Context, runner TxRunner, iso domainagg.Isolation, fn func(dbc dbctx.Context) error) error {
	if iso != domainagg.IsolationDefault {
		if ir, ok := runner.(IsolatedTxRunner); ok {
			return ir.InTxIsolated(ctx, iso, fn)
		}
	}
	return runner.InTx(ctx, fn)
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
