package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeExpirer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeExpirer) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 3, f.err
}

func (f *fakeExpirer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestProposalScheduler_InvalidSchedule(t *testing.T) {
	s := NewProposalScheduler(&fakeExpirer{}, "not a cron spec")
	assert.Error(t, s.Start())
}

func TestProposalScheduler_RunOnce(t *testing.T) {
	expirer := &fakeExpirer{}
	s := NewProposalScheduler(expirer, "0 2 * * *")

	s.RunOnce()
	expirer.err = errors.New("db down")
	s.RunOnce()

	assert.Equal(t, 2, expirer.count())
}

func TestProposalScheduler_StartStop(t *testing.T) {
	expirer := &fakeExpirer{}
	s := NewProposalScheduler(expirer, "@every 1s")

	assert.NoError(t, s.Start())
	assert.Eventually(t, func() bool { return expirer.count() > 0 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}
