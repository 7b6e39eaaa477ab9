package job

import (
	"cloudrent/internal/repository"
	"cloudrent/pkg/log"
	"cloudrent/pkg/metrics"
	"cloudrent/pkg/sid"
)

type Job struct {
	logger  *log.Logger
	sid     *sid.Sid
	tm      repository.Transaction
	metrics *metrics.Metrics
}

func NewJob(
	tm repository.Transaction,
	logger *log.Logger,
	sid *sid.Sid,
	metrics *metrics.Metrics,
) *Job {
	return &Job{
		logger:  logger,
		sid:     sid,
		tm:      tm,
		metrics: metrics,
	}
}
