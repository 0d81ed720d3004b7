package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/idlehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	defer timeouts.Reset()

	timeouts.Configure(timeouts.Config{Medium: 3 * time.Second})
	got := timeouts.Current()
	if got.Medium != 3*time.Second {
		t.Errorf("Medium: got %v, want 3s", got.Medium)
	}
	if got.Batch != timeouts.DefaultBatch {
		t.Errorf("Batch: got %v, want default %v", got.Batch, timeouts.DefaultBatch)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()
	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("err: got %v, want DeadlineExceeded", ctx.Err())
	}
}
