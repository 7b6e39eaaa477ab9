package service

import (
	"cloudrent/internal/repository"
	"cloudrent/internal/saga"
	"cloudrent/pkg/log"
	"cloudrent/pkg/metrics"
	"cloudrent/pkg/sid"
)

type Service struct {
	logger  *log.Logger
	sid     *sid.Sid
	tm      repository.Transaction
	metrics *metrics.Metrics
}

func NewService(
	tm repository.Transaction,
	logger *log.Logger,
	sid *sid.Sid,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		logger:  logger,
		sid:     sid,
		tm:      tm,
		metrics: metrics,
	}
}

// sagaOptions wires a saga into the service's logger and compensation counters.
func (s *Service) sagaOptions() []saga.Option {
	return []saga.Option{
		saga.WithLogger(s.logger),
		saga.WithObserver(func(e saga.Event) {
			if e.Phase != saga.PhaseCompensation {
				return
			}
			outcome := "ok"
			if e.Err != nil {
				outcome = "failed"
			}
			s.metrics.CompensationTotal.WithLabelValues(e.Saga, e.Step, outcome).Inc()
		}),
	}
}
