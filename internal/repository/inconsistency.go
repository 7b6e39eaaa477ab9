package repository

import (
	"context"
	"errors"

	"cloudrent/internal/model"

	"gorm.io/gorm"
)

type InconsistencyRepository interface {
	Create(ctx context.Context, inc *model.Inconsistency) error
	List(ctx context.Context, includeResolved bool) ([]*model.Inconsistency, error)
	GetByID(ctx context.Context, id int64) (*model.Inconsistency, error)
	Resolve(ctx context.Context, id int64) error
}

func NewInconsistencyRepository(r *Repository) InconsistencyRepository {
	return &inconsistencyRepository{Repository: r}
}

type inconsistencyRepository struct {
	*Repository
}

func (r *inconsistencyRepository) Create(ctx context.Context, inc *model.Inconsistency) error {
	return r.DB(ctx).Create(inc).Error
}

func (r *inconsistencyRepository) List(ctx context.Context, includeResolved bool) ([]*model.Inconsistency, error) {
	var list []*model.Inconsistency
	query := r.DB(ctx).Model(&model.Inconsistency{})
	if !includeResolved {
		query = query.Where("resolved = ?", 0)
	}
	if err := query.Order("id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *inconsistencyRepository) GetByID(ctx context.Context, id int64) (*model.Inconsistency, error) {
	var inc model.Inconsistency
	if err := r.DB(ctx).Where("id = ?", id).First(&inc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inc, nil
}

func (r *inconsistencyRepository) Resolve(ctx context.Context, id int64) error {
	return r.DB(ctx).Model(&model.Inconsistency{}).Where("id = ?", id).Update("resolved", 1).Error
}
