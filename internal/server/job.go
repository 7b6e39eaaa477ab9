package server

import (
	"context"
	"time"

	"cloudrent/internal/job"
	"cloudrent/pkg/log"

	"github.com/go-co-op/gocron"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type JobServer struct {
	log       *log.Logger
	scheduler *gocron.Scheduler
	expiryJob job.ExpiryJob
	enabled   bool
}

func NewJobServer(
	log *log.Logger,
	conf *viper.Viper,
	expiryJob job.ExpiryJob,
) *JobServer {
	loc := time.UTC
	if tz := conf.GetString("rental.sweep.timezone"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			log.Warn("unknown sweep timezone, using UTC", zap.String("timezone", tz), zap.Error(err))
		} else {
			loc = l
		}
	}
	// replicas coordinate through the expiry job's own lock, see job.NewExpiryJob
	scheduler := gocron.NewScheduler(loc)
	enabled := true
	if conf.IsSet("rental.sweep.enabled") {
		enabled = conf.GetBool("rental.sweep.enabled")
	}
	return &JobServer{
		log:       log,
		scheduler: scheduler,
		expiryJob: expiryJob,
		enabled:   enabled,
	}
}

func (j *JobServer) Start(ctx context.Context) error {
	if !j.enabled {
		j.log.Info("expiry sweep disabled")
		return nil
	}
	gocron.SetPanicHandler(func(jobName string, recoverData interface{}) {
		j.log.Error("job panic", zap.String("job", jobName), zap.Any("recover", recoverData))
	})
	if err := j.expiryJob.Register(j.scheduler); err != nil {
		return err
	}
	j.scheduler.StartAsync()
	j.log.Info("job server started", zap.Time("next_sweep", j.expiryJob.NextRun()))
	return nil
}

func (j *JobServer) Stop(ctx context.Context) error {
	j.scheduler.Stop()
	j.log.Info("job server stopped")
	return nil
}
