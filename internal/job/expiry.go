package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/service"

	"github.com/go-co-op/gocron"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ExpiryJobName identifies the sweep in the scheduler and in distributed locks.
const ExpiryJobName = "expiry-sweep"

type ExpiryJob interface {
	// Register schedules the daily sweep on s.
	Register(s *gocron.Scheduler) error
	// Sweep runs one sweep now, outside the schedule. It fails with
	// v1.ErrSweepRunning while another sweep runs here or on a replica.
	Sweep(ctx context.Context) (*v1.SweepResult, error)
	// SweepAt is Sweep as of the given instant.
	SweepAt(ctx context.Context, now time.Time) (*v1.SweepResult, error)
	// NextRun is the next scheduled sweep; zero before Register.
	NextRun() time.Time
}

// NewExpiryJob builds the sweep job. locker may be nil for a single replica.
func NewExpiryJob(
	job *Job,
	conf *viper.Viper,
	locker gocron.Locker,
	expiryService service.ExpiryService,
) ExpiryJob {
	at := conf.GetString("rental.sweep.at")
	if at == "" {
		at = "00:00"
	}
	return &expiryJob{
		Job:           job,
		expiryService: expiryService,
		locker:        locker,
		at:            at,
		now:           time.Now,
	}
}

type expiryJob struct {
	*Job
	expiryService service.ExpiryService
	locker        gocron.Locker
	at            string
	now           func() time.Time

	// running is held for the whole sweep; the locker extends it across replicas
	running sync.Mutex

	mu  sync.Mutex
	job *gocron.Job
}

func (j *expiryJob) Register(s *gocron.Scheduler) error {
	job, err := s.Every(1).Day().At(j.at).
		Name(ExpiryJobName).
		SingletonMode().
		Do(j.run)
	if err != nil {
		return fmt.Errorf("schedule %s at %s: %w", ExpiryJobName, j.at, err)
	}
	j.mu.Lock()
	j.job = job
	j.mu.Unlock()
	j.logger.Info("expiry sweep scheduled", zap.String("at", j.at))
	return nil
}

// run is the scheduled entry point. Errors are logged since nobody waits for it.
// gocron ignores its distributed locker in singleton mode, so the lock is taken
// in SweepAt on every path.
func (j *expiryJob) run() {
	_, err := j.Sweep(context.Background())
	switch {
	case errors.Is(err, v1.ErrSweepRunning):
		j.logger.Info("scheduled expiry sweep skipped, another sweep is running")
	case err != nil:
		j.logger.Error("scheduled expiry sweep failed", zap.Error(err))
	}
	j.metrics.SweepNextRun.Set(float64(j.NextRun().Unix()))
}

func (j *expiryJob) Sweep(ctx context.Context) (*v1.SweepResult, error) {
	return j.SweepAt(ctx, j.now())
}

func (j *expiryJob) SweepAt(ctx context.Context, now time.Time) (*v1.SweepResult, error) {
	if !j.running.TryLock() {
		return nil, v1.ErrSweepRunning
	}
	defer j.running.Unlock()

	runID, err := j.sid.GenString()
	if err != nil {
		return nil, err
	}
	ctx = j.logger.WithValue(ctx, zap.String("job", ExpiryJobName), zap.String("run_id", runID))
	logger := j.logger.WithContext(ctx)

	if j.locker != nil {
		lock, err := j.locker.Lock(ctx, ExpiryJobName)
		if errors.Is(err, ErrLockHeld) {
			return nil, v1.ErrSweepRunning
		}
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", ExpiryJobName, err)
		}
		defer func() {
			if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release sweep lock, it expires on its own", zap.Error(err))
			}
		}()
	}
	return j.expiryService.RunExpirySweep(ctx, now)
}

func (j *expiryJob) NextRun() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.job == nil {
		return time.Time{}
	}
	return j.job.NextRun()
}
