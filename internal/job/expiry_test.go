package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	v1 "cloudrent/api/v1"
	"cloudrent/pkg/log"
	"cloudrent/pkg/metrics"
	"cloudrent/pkg/sid"

	"github.com/go-co-op/gocron"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpiryService struct {
	mu    sync.Mutex
	calls []time.Time
	// entered and release, when set, hold the sweep open
	entered chan struct{}
	release chan struct{}
}

func (f *fakeExpiryService) RunExpirySweep(ctx context.Context, now time.Time) (*v1.SweepResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, now)
	f.mu.Unlock()
	if f.entered != nil {
		close(f.entered)
		<-f.release
	}
	return &v1.SweepResult{Now: now, Reclaimed: []string{"vm1"}, Failed: []string{}}, nil
}

// fakeLocker stands in for redis: a key is held until its lock is released.
type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	keys     []string
	unlocked int
}

func (l *fakeLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	if l.held[key] {
		return nil, ErrLockHeld
	}
	l.held[key] = true
	return &fakeLock{locker: l, key: key}, nil
}

type fakeLock struct {
	locker *fakeLocker
	key    string
}

func (l *fakeLock) Unlock(ctx context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()
	delete(l.locker.held, l.key)
	l.locker.unlocked++
	return nil
}

func newExpiryJob(t *testing.T, at string) (*expiryJob, *fakeExpiryService) {
	t.Helper()
	return newLockedExpiryJob(t, at, nil)
}

func newLockedExpiryJob(t *testing.T, at string, locker gocron.Locker) (*expiryJob, *fakeExpiryService) {
	t.Helper()
	conf := viper.New()
	conf.Set("rental.sweep.at", at)
	svc := &fakeExpiryService{}
	j := NewExpiryJob(NewJob(nil, log.NewNop(), sid.NewSid(), metrics.NewMetrics()), conf, locker, svc).(*expiryJob)
	return j, svc
}

func TestExpiryJob_Sweep(t *testing.T) {
	j, svc := newExpiryJob(t, "")
	fixed := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	result, err := j.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"vm1"}, result.Reclaimed)
	assert.Equal(t, []time.Time{fixed}, svc.calls)
	assert.Equal(t, "00:00", j.at)
}

func TestExpiryJob_SweepAt(t *testing.T) {
	j, svc := newExpiryJob(t, "")
	at := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

	result, err := j.SweepAt(context.Background(), at)
	require.NoError(t, err)
	assert.Equal(t, at, result.Now)
	assert.Equal(t, []time.Time{at}, svc.calls)
}

func TestExpiryJob_SweepRefusedWhileRunning(t *testing.T) {
	locker := &fakeLocker{held: map[string]bool{}}
	j, svc := newLockedExpiryJob(t, "", locker)
	svc.entered, svc.release = make(chan struct{}), make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := j.Sweep(context.Background())
		done <- err
	}()
	<-svc.entered

	_, err := j.Sweep(context.Background())
	assert.ErrorIs(t, err, v1.ErrSweepRunning)

	close(svc.release)
	require.NoError(t, <-done)
	assert.Len(t, svc.calls, 1)
	assert.Equal(t, []string{ExpiryJobName}, locker.keys)
	assert.Equal(t, 1, locker.unlocked)

	// free again once the first sweep is over
	svc.entered = nil
	_, err = j.Sweep(context.Background())
	require.NoError(t, err)
	assert.Len(t, svc.calls, 2)
}

func TestExpiryJob_SweepRefusedWhileReplicaHoldsLock(t *testing.T) {
	locker := &fakeLocker{held: map[string]bool{ExpiryJobName: true}}
	j, svc := newLockedExpiryJob(t, "", locker)

	_, err := j.Sweep(context.Background())
	assert.ErrorIs(t, err, v1.ErrSweepRunning)
	assert.Empty(t, svc.calls)

	// the scheduled run skips quietly
	j.run()
	assert.Empty(t, svc.calls)
}

type brokenLocker struct{}

func (brokenLocker) Lock(context.Context, string) (gocron.Lock, error) {
	return nil, errors.New("redis: connection refused")
}

func TestExpiryJob_SweepLockerFailure(t *testing.T) {
	j, svc := newLockedExpiryJob(t, "", brokenLocker{})

	_, err := j.Sweep(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, v1.ErrSweepRunning)
	assert.Empty(t, svc.calls)
}

func TestExpiryJob_NextRun(t *testing.T) {
	j, _ := newExpiryJob(t, "03:30")
	assert.True(t, j.NextRun().IsZero())

	s := gocron.NewScheduler(time.UTC)
	require.NoError(t, j.Register(s))
	s.StartAsync()
	t.Cleanup(s.Stop)

	next := j.NextRun()
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.Less(t, time.Until(next), 24*time.Hour+time.Minute)
}

func TestExpiryJob_RegisterRejectsBadTime(t *testing.T) {
	j, _ := newExpiryJob(t, "25:99")
	err := j.Register(gocron.NewScheduler(time.UTC))
	assert.Error(t, err)
}

func TestNewLocker_WithoutRedis(t *testing.T) {
	assert.Nil(t, NewLocker(viper.New(), log.NewNop(), nil))
}
