package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/model"
	"cloudrent/internal/repository"

	"go.uber.org/zap"
)

type ExpiryService interface {
	// RunExpirySweep reclaims every rental whose end date lies before now's day.
	// Records are handled independently: one failing leaves it for the next sweep
	// and does not stop the others.
	RunExpirySweep(ctx context.Context, now time.Time) (*v1.SweepResult, error)
}

func NewExpiryService(
	service *Service,
	rentalRepo repository.RentalRepository,
	decommissioner *Decommissioner,
) ExpiryService {
	return &expiryService{
		Service:        service,
		rentalRepo:     rentalRepo,
		decommissioner: decommissioner,
	}
}

type expiryService struct {
	*Service
	rentalRepo     repository.RentalRepository
	decommissioner *Decommissioner
}

func (s *expiryService) RunExpirySweep(ctx context.Context, now time.Time) (*v1.SweepResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	today := model.Day(now)
	ctx = s.logger.WithValue(ctx, zap.String("sweep_day", today.Format(v1.DateLayout)))
	logger := s.logger.WithContext(ctx)

	expired, err := s.rentalRepo.ListExpired(ctx, today)
	if err != nil {
		logger.Error("failed to list expired rentals", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}

	result := &v1.SweepResult{Now: now, Reclaimed: []string{}, Failed: []string{}}
	for _, rental := range expired {
		if err := ctx.Err(); err != nil {
			logger.Warn("expiry sweep interrupted", zap.Int("left", len(expired)-len(result.Reclaimed)-len(result.Failed)))
			return result, err
		}
		err := s.decommissioner.Decommission(ctx, rental)
		switch {
		case err == nil:
			result.Reclaimed = append(result.Reclaimed, rental.Name)
			s.metrics.SweepRecords.WithLabelValues("reclaimed").Inc()
		case errors.Is(err, v1.ErrNotFound):
			// returned by its owner since the read
			s.metrics.SweepRecords.WithLabelValues("gone").Inc()
		default:
			logger.Error("failed to reclaim expired rental",
				zap.String("rental", rental.Name),
				zap.String("end_date", rental.EndDate.Format(v1.DateLayout)),
				zap.Error(err))
			result.Failed = append(result.Failed, rental.Name)
			s.metrics.SweepRecords.WithLabelValues("failed").Inc()
		}
	}

	logger.Info("expiry sweep finished",
		zap.Int("expired", len(expired)),
		zap.Int("reclaimed", len(result.Reclaimed)),
		zap.Int("failed", len(result.Failed)),
		zap.Duration("took", time.Since(start)))
	return result, nil
}
