package service

import (
	"context"
	"fmt"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/model"
	"cloudrent/internal/repository"

	"go.uber.org/zap"
)

// InconsistencyService gives operators the sagas whose rollback left cloud
// resources behind.
type InconsistencyService interface {
	List(ctx context.Context, includeResolved bool) ([]*model.Inconsistency, error)
	Resolve(ctx context.Context, id int64) error
}

func NewInconsistencyService(service *Service, inconsistencyRepo repository.InconsistencyRepository) InconsistencyService {
	return &inconsistencyService{
		Service:           service,
		inconsistencyRepo: inconsistencyRepo,
	}
}

type inconsistencyService struct {
	*Service
	inconsistencyRepo repository.InconsistencyRepository
}

func (s *inconsistencyService) List(ctx context.Context, includeResolved bool) ([]*model.Inconsistency, error) {
	list, err := s.inconsistencyRepo.List(ctx, includeResolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
	return list, nil
}

func (s *inconsistencyService) Resolve(ctx context.Context, id int64) error {
	inc, err := s.inconsistencyRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
	if inc == nil {
		return fmt.Errorf("%w: inconsistency %d", v1.ErrNotFound, id)
	}
	if err := s.inconsistencyRepo.Resolve(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
	s.logger.WithContext(ctx).Info("inconsistency resolved",
		zap.Int64("id", id), zap.String("saga_id", inc.SagaID), zap.String("rental", inc.RentalName))
	return nil
}
