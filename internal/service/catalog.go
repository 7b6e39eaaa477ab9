package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/cloud"
	"cloudrent/internal/model"
	"cloudrent/internal/repository"

	"github.com/duke-git/lancet/v2/slice"
	"go.uber.org/zap"
)

// CatalogService answers what can be rented and how loaded a node already is.
type CatalogService interface {
	ListImages(ctx context.Context, node string) ([]string, error)
	// ListFlavors returns the known flavors, smallest first.
	ListFlavors(ctx context.Context) ([]*model.Flavor, error)
	NodeUsage(ctx context.Context, node string) (*model.NodeUsage, error)
}

func NewCatalogService(
	service *Service,
	provider cloud.Provider,
	flavorRepo repository.FlavorRepository,
	rentalRepo repository.RentalRepository,
) CatalogService {
	return &catalogService{
		Service:    service,
		provider:   provider,
		flavorRepo: flavorRepo,
		rentalRepo: rentalRepo,
	}
}

type catalogService struct {
	*Service
	provider   cloud.Provider
	flavorRepo repository.FlavorRepository
	rentalRepo repository.RentalRepository
}

func (s *catalogService) ListImages(ctx context.Context, node string) ([]string, error) {
	if strings.TrimSpace(node) == "" {
		return nil, fmt.Errorf("%w: missing node", v1.ErrBadRequest)
	}
	images, err := s.provider.ListImages(ctx, node)
	if err != nil {
		s.logger.WithContext(ctx).Warn("listing images failed", zap.String("node", node), zap.Error(err))
		if errors.Is(err, cloud.ErrProvider) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", v1.ErrProviderFailure, err)
		}
		return nil, fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
	return images, nil
}

func (s *catalogService) ListFlavors(ctx context.Context) ([]*model.Flavor, error) {
	flavors, err := s.flavorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
	slice.SortBy(flavors, func(a, b *model.Flavor) bool {
		if a.VCPU != b.VCPU {
			return a.VCPU < b.VCPU
		}
		if a.RAM != b.RAM {
			return a.RAM < b.RAM
		}
		return a.Disk < b.Disk
	})
	return flavors, nil
}

func (s *catalogService) NodeUsage(ctx context.Context, node string) (*model.NodeUsage, error) {
	if strings.TrimSpace(node) == "" {
		return nil, fmt.Errorf("%w: missing node", v1.ErrBadRequest)
	}
	usage, err := s.rentalRepo.NodeUsage(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
	return usage, nil
}
