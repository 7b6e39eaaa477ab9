package repository

import (
	"context"
	"errors"

	"cloudrent/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SharedRepository persists a shared infrastructure record, its per-node
// materialization links, and answers who still consumes it.
type SharedRepository[T model.SharedResource] interface {
	Get(ctx context.Context, name string) (*T, error)
	// GetForUpdate is Get holding a row lock until the transaction in ctx ends.
	// Every claim and release of the resource passes through it, so they serialize
	// per resource and a count taken afterwards sees the others' commits.
	GetForUpdate(ctx context.Context, name string) (*T, error)
	// List returns every record ordered by name.
	List(ctx context.Context) ([]*T, error)
	// CreateIfAbsent inserts rec unless a record with the same name exists.
	CreateIfAbsent(ctx context.Context, rec *T) (bool, error)
	// MarkDefault inserts rec as a default or flags the existing record as one.
	MarkDefault(ctx context.Context, rec *T) error
	Delete(ctx context.Context, name string) error
	// ClaimNode records the resource as materialized on node. claimed is false when
	// the link already existed.
	ClaimNode(ctx context.Context, node, name string) (claimed bool, err error)
	ReleaseNode(ctx context.Context, node, name string) (bool, error)
	// CountNodes is the number of nodes the resource is materialized on.
	CountNodes(ctx context.Context, name string) (int64, error)
	// CountConsumers is the number of rentals on node that reference the resource.
	CountConsumers(ctx context.Context, node, name string) (int64, error)
}

type NetworkRepository interface {
	SharedRepository[model.Network]
}

type FlavorRepository interface {
	SharedRepository[model.Flavor]
}

func NewNetworkRepository(r *Repository) NetworkRepository {
	return &sharedRepository[model.Network, model.NodeNetwork]{
		Repository: r,
		column:     "network_name",
		newLink: func(node, name string) *model.NodeNetwork {
			return &model.NodeNetwork{NodeName: node, NetworkName: name}
		},
	}
}

func NewFlavorRepository(r *Repository) FlavorRepository {
	return &sharedRepository[model.Flavor, model.NodeFlavor]{
		Repository: r,
		column:     "flavor_name",
		newLink: func(node, name string) *model.NodeFlavor {
			return &model.NodeFlavor{NodeName: node, FlavorName: name}
		},
	}
}

// sharedRepository serves both networks and flavors. column names the resource in
// the link table and in the rental table alike.
type sharedRepository[T model.SharedResource, L any] struct {
	*Repository
	column  string
	newLink func(node, name string) *L
}

func (r *sharedRepository[T, L]) Get(ctx context.Context, name string) (*T, error) {
	return r.get(r.DB(ctx), name)
}

func (r *sharedRepository[T, L]) GetForUpdate(ctx context.Context, name string) (*T, error) {
	return r.get(r.DB(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), name)
}

func (r *sharedRepository[T, L]) get(db *gorm.DB, name string) (*T, error) {
	var rec T
	if err := db.Where("name = ?", name).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *sharedRepository[T, L]) List(ctx context.Context) ([]*T, error) {
	var recs []*T
	if err := r.DB(ctx).Order("name").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sharedRepository[T, L]) CreateIfAbsent(ctx context.Context, rec *T) (bool, error) {
	res := r.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rec)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *sharedRepository[T, L]) MarkDefault(ctx context.Context, rec *T) error {
	if _, err := r.CreateIfAbsent(ctx, rec); err != nil {
		return err
	}
	return r.DB(ctx).Model(new(T)).Where("name = ?", (*rec).ResourceName()).Update("is_default", 1).Error
}

func (r *sharedRepository[T, L]) Delete(ctx context.Context, name string) error {
	return r.DB(ctx).Where("name = ?", name).Delete(new(T)).Error
}

func (r *sharedRepository[T, L]) ClaimNode(ctx context.Context, node, name string) (bool, error) {
	res := r.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(r.newLink(node, name))
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *sharedRepository[T, L]) ReleaseNode(ctx context.Context, node, name string) (bool, error) {
	res := r.DB(ctx).Where("node_name = ? AND "+r.column+" = ?", node, name).Delete(new(L))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sharedRepository[T, L]) CountNodes(ctx context.Context, name string) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(new(L)).Where(r.column+" = ?", name).Count(&n).Error
	return n, err
}

func (r *sharedRepository[T, L]) CountConsumers(ctx context.Context, node, name string) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&model.Rental{}).Where("node_name = ? AND "+r.column+" = ?", node, name).Count(&n).Error
	return n, err
}
