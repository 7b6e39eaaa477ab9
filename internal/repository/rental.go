package repository

import (
	"context"
	"errors"
	"time"

	"cloudrent/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RentalRepository interface {
	// Create inserts rental unless its name is taken; inserted is false on a name clash.
	Create(ctx context.Context, rental *model.Rental) (inserted bool, err error)
	GetByName(ctx context.Context, name string) (*model.Rental, error)
	DeleteByName(ctx context.Context, name string) error
	UpdateEndDate(ctx context.Context, name string, end time.Time) (bool, error)
	// ListExpired returns rentals whose end date lies strictly before the given day.
	ListExpired(ctx context.Context, before time.Time) ([]*model.Rental, error)
	List(ctx context.Context, kind, userName string) ([]*model.Rental, error)
	// NodeUsage sums the flavors of the server rentals on node. A rental whose
	// flavor record is gone still counts, with zero resources.
	NodeUsage(ctx context.Context, node string) (*model.NodeUsage, error)
}

func NewRentalRepository(r *Repository) RentalRepository {
	return &rentalRepository{Repository: r}
}

type rentalRepository struct {
	*Repository
}

func (r *rentalRepository) Create(ctx context.Context, rental *model.Rental) (bool, error) {
	res := r.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rental)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *rentalRepository) GetByName(ctx context.Context, name string) (*model.Rental, error) {
	var rental model.Rental
	if err := r.DB(ctx).Where("name = ?", name).First(&rental).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) DeleteByName(ctx context.Context, name string) error {
	return r.DB(ctx).Where("name = ?", name).Delete(&model.Rental{}).Error
}

func (r *rentalRepository) UpdateEndDate(ctx context.Context, name string, end time.Time) (bool, error) {
	res := r.DB(ctx).Model(&model.Rental{}).Where("name = ?", name).Update("end_date", model.Day(end))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *rentalRepository) ListExpired(ctx context.Context, before time.Time) ([]*model.Rental, error) {
	var rentals []*model.Rental
	if err := r.DB(ctx).Where("end_date < ?", model.Day(before)).Order("end_date ASC, id ASC").Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *rentalRepository) List(ctx context.Context, kind, userName string) ([]*model.Rental, error) {
	var rentals []*model.Rental
	query := r.DB(ctx).Model(&model.Rental{})
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if userName != "" {
		query = query.Where("user_name = ?", userName)
	}
	if err := query.Order("id DESC").Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *rentalRepository) NodeUsage(ctx context.Context, node string) (*model.NodeUsage, error) {
	var usage model.NodeUsage
	err := r.DB(ctx).Model(&model.Rental{}).
		Select("COUNT(rental.id) AS count, "+
			"COALESCE(SUM(flavor.vcpu), 0) AS vcpus, "+
			"COALESCE(SUM(flavor.ram), 0) AS ram, "+
			"COALESCE(SUM(flavor.disk), 0) AS disk").
		Joins("LEFT JOIN flavor ON flavor.name = rental.flavor_name").
		Where("rental.node_name = ? AND rental.kind = ?", node, model.RentalKindServer).
		Scan(&usage).Error
	if err != nil {
		return nil, err
	}
	return &usage, nil
}
