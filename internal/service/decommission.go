package service

import (
	"context"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/cloud"
	"cloudrent/internal/model"
	"cloudrent/internal/repository"

	"go.uber.org/zap"
)

// Decommissioner removes a rental together with everything that only it held:
// its address, its instance, its record, and its share of the node's network and
// flavor. Used by manual returns and by the expiry sweep alike.
type Decommissioner struct {
	*Service
	rentalRepo repository.RentalRepository
	networks   NetworkManager
	flavors    FlavorManager
	provider   cloud.Provider
}

func NewDecommissioner(
	service *Service,
	rentalRepo repository.RentalRepository,
	networks NetworkManager,
	flavors FlavorManager,
	provider cloud.Provider,
) *Decommissioner {
	return &Decommissioner{
		Service:    service,
		rentalRepo: rentalRepo,
		networks:   networks,
		flavors:    flavors,
		provider:   provider,
	}
}

// Decommission tears rental down in one transaction. Cloud resources that are
// already gone count as removed, so a retry after a partial failure converges.
// It returns v1.ErrNotFound when the record disappeared in the meantime.
func (d *Decommissioner) Decommission(ctx context.Context, rental *model.Rental) error {
	logger := d.logger.WithContext(ctx).With(
		zap.String("rental", rental.Name),
		zap.String("kind", rental.Kind),
		zap.String("node", rental.NodeName),
	)
	err := d.tm.Transaction(ctx, func(ctx context.Context) error {
		current, err := d.rentalRepo.GetByName(ctx, rental.Name)
		if err != nil {
			return err
		}
		if current == nil {
			return v1.ErrNotFound
		}
		if current.Address != "" {
			if err := cloud.IgnoreNotFound(d.provider.ReleaseAddress(ctx, current.NodeName, current.Address)); err != nil {
				return err
			}
		}
		if current.InstanceID == "" {
			// no handle recorded: deleting by name could hit a namesake
			logger.Warn("rental has no instance id, leaving its instance in place")
		} else if err := cloud.IgnoreNotFound(d.provider.DeleteInstance(ctx, current.NodeName, current.InstanceID)); err != nil {
			return err
		}
		if err := d.rentalRepo.DeleteByName(ctx, current.Name); err != nil {
			return err
		}
		if err := d.networks.Release(ctx, current.NodeName, current.NetworkName); err != nil {
			return err
		}
		if current.FlavorName != "" {
			if err := d.flavors.Release(ctx, current.NodeName, current.FlavorName); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("decommission failed", zap.Error(err))
		return err
	}
	logger.Info("rental decommissioned")
	return nil
}
