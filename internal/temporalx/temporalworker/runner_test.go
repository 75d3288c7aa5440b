package temporalworker

import (
	"testing"
	"time"

	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
	"github.com/yungbote/qualiopi-backend/internal/temporalx"
)

func TestNewRunner_RequiresClient(t *testing.T) {
	if _, err := NewRunner(logger.NewNop(), nil, temporalx.Config{}, nil, nil); err == nil {
		t.Fatalf("expected error without a client")
	}
}

func TestBackoff(t *testing.T) {
	if got := backoff(1); got != 250*time.Millisecond {
		t.Fatalf("attempt 1: %v", got)
	}
	if got := backoff(3); got != time.Second {
		t.Fatalf("attempt 3: %v", got)
	}
	if got := backoff(20); got != 5*time.Second {
		t.Fatalf("attempt 20: %v", got)
	}
}
