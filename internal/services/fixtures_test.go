package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/qualiopi-backend/internal/data/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	fixtures "github.com/yungbote/qualiopi-backend/internal/data/repos/testutil"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type serviceStore struct {
	db   *gorm.DB
	log  *logger.Logger
	set  repos.Set
	base aggregates.BaseDeps
}

func newServiceStore(t *testing.T) serviceStore {
	t.Helper()
	db := fixtures.DB(t)
	log := fixtures.Logger(t)
	return serviceStore{
		db:   db,
		log:  log,
		set:  repos.NewSet(db, log),
		base: aggregates.BaseDeps{DB: db, Log: log},
	}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// recordingNotifier keeps every notification handed to it.
type recordingNotifier struct {
	mu   sync.Mutex
	seen []*types.Notification
}

func (r *recordingNotifier) NotificationCreated(_ context.Context, n *types.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
