package service

import (
	"context"
	"fmt"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/cloud"
	"cloudrent/internal/model"
	"cloudrent/internal/repository"
	"cloudrent/internal/saga"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// SharedInfraManager materializes a shared resource on a node at most once and
// tears it down when the last rental on that node lets go of it.
type SharedInfraManager[T model.SharedResource] interface {
	// Ensure makes want available on node and returns the authoritative record: an
	// existing record with the same name wins over want's attributes. created is true
	// only when this call materialized it; the caller must Abandon it if its own work
	// fails.
	Ensure(ctx context.Context, node string, want *T) (rec *T, created bool, err error)
	// Abandon undoes an Ensure that reported created. rec is the record Ensure
	// returned, so it works even after the record's insert was rolled back.
	Abandon(ctx context.Context, node string, rec *T) error
	// Release drops the node's claim once no rental on node references name.
	// It is idempotent, and a no-op for default resources.
	Release(ctx context.Context, node, name string) error
}

type NetworkManager interface {
	SharedInfraManager[model.Network]
}

type FlavorManager interface {
	SharedInfraManager[model.Flavor]
}

func NewNetworkManager(
	service *Service,
	networkRepo repository.NetworkRepository,
	provider cloud.Provider,
	conf *viper.Viper,
) NetworkManager {
	n := &networkBackend{
		Service:  service,
		provider: provider,
		external: conf.GetString("cloud.external_network"),
	}
	return &sharedManager[model.Network]{
		Service:     service,
		kind:        "network",
		repo:        networkRepo,
		materialize: n.materialize,
		teardown:    n.teardown,
	}
}

func NewFlavorManager(
	service *Service,
	flavorRepo repository.FlavorRepository,
	provider cloud.Provider,
) FlavorManager {
	return &sharedManager[model.Flavor]{
		Service: service,
		kind:    "flavor",
		repo:    flavorRepo,
		materialize: func(ctx context.Context, node string, f *model.Flavor) error {
			return provider.CreateProfile(ctx, node, cloud.ProfileSpec{Name: f.Name, VCPU: f.VCPU, RAM: f.RAM, Disk: f.Disk})
		},
		teardown: func(ctx context.Context, node string, f *model.Flavor) error {
			return cloud.IgnoreNotFound(provider.DeleteProfile(ctx, node, f.Name))
		},
	}
}

const maxEnsureAttempts = 3

type sharedManager[T model.SharedResource] struct {
	*Service
	kind        string
	repo        repository.SharedRepository[T]
	materialize func(ctx context.Context, node string, rec *T) error
	teardown    func(ctx context.Context, node string, rec *T) error
}

func (m *sharedManager[T]) Ensure(ctx context.Context, node string, want *T) (*T, bool, error) {
	name := (*want).ResourceName()
	logger := m.logger.WithContext(ctx).With(zap.String(m.kind, name), zap.String("node", node))

	rec, err := m.repo.Get(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if rec != nil && (*rec).Protected() {
		return rec, false, nil
	}
	// a concurrent Release may delete the record while we wait for its lock
	for attempt := 1; ; attempt++ {
		if rec == nil {
			if err := (*want).Validate(); err != nil {
				return nil, false, fmt.Errorf("%w: %v", v1.ErrBadRequest, err)
			}
			if _, err := m.repo.CreateIfAbsent(ctx, want); err != nil {
				return nil, false, err
			}
		}
		if rec, err = m.repo.GetForUpdate(ctx, name); err != nil {
			return nil, false, err
		}
		if rec != nil {
			break
		}
		if attempt == maxEnsureAttempts {
			return nil, false, fmt.Errorf("%s %s vanished after insert", m.kind, name)
		}
	}
	if (*rec).Protected() {
		return rec, false, nil
	}
	if stored := (*rec).StoredDigest(); stored != "" && (*want).Validate() == nil && stored != (*want).Digest() {
		logger.Warn("requested attributes differ from the stored record, using the stored one")
	}

	claimed, err := m.repo.ClaimNode(ctx, node, name)
	if err != nil {
		return nil, false, err
	}
	if !claimed {
		return rec, false, nil
	}
	if err := m.materialize(ctx, node, rec); err != nil {
		if _, derr := m.repo.ReleaseNode(ctx, node, name); derr != nil {
			logger.Error("failed to drop node link after materialize failure", zap.Error(derr))
		}
		return nil, false, err
	}
	logger.Info("shared resource materialized")
	return rec, true, nil
}

func (m *sharedManager[T]) Release(ctx context.Context, node, name string) error {
	logger := m.logger.WithContext(ctx).With(zap.String(m.kind, name), zap.String("node", node))

	// held until commit: an Ensure of the same resource waits, and our consumer
	// count sees every rental committed before we got the lock
	rec, err := m.repo.GetForUpdate(ctx, name)
	if err != nil {
		return err
	}
	if rec == nil {
		_, err := m.repo.ReleaseNode(ctx, node, name)
		return err
	}
	if (*rec).Protected() {
		return nil
	}
	consumers, err := m.repo.CountConsumers(ctx, node, name)
	if err != nil {
		return err
	}
	if consumers > 0 {
		logger.Debug("shared resource still in use", zap.Int64("consumers", consumers))
		return nil
	}
	if _, err := m.repo.ReleaseNode(ctx, node, name); err != nil {
		return err
	}
	// torn down even without a link, so retries after a lost commit converge
	if err := m.teardown(ctx, node, rec); err != nil {
		return err
	}
	remaining, err := m.repo.CountNodes(ctx, name)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := m.repo.Delete(ctx, name); err != nil {
			return err
		}
	}
	logger.Info("shared resource released", zap.Int64("remaining_nodes", remaining))
	return nil
}

func (m *sharedManager[T]) Abandon(ctx context.Context, node string, rec *T) error {
	name := (*rec).ResourceName()
	if _, err := m.repo.ReleaseNode(ctx, node, name); err != nil {
		return err
	}
	if err := m.teardown(ctx, node, rec); err != nil {
		return err
	}
	remaining, err := m.repo.CountNodes(ctx, name)
	if err != nil {
		return err
	}
	if remaining == 0 {
		return m.repo.Delete(ctx, name)
	}
	return nil
}

// networkBackend builds and removes the per-node pieces of a tenant network:
// the network, one subnet, and a router joining it to the external network.
type networkBackend struct {
	*Service
	provider cloud.Provider
	external string
}

func subnetOf(n *model.Network) (cloud.SubnetSpec, error) {
	gw, err := n.Gateway()
	if err != nil {
		return cloud.SubnetSpec{}, err
	}
	return cloud.SubnetSpec{Network: n.Name, Name: n.Name + "-subnet", CIDR: n.CIDR, Gateway: gw}, nil
}

func routerOf(n *model.Network) string {
	return n.Name + "-router"
}

func (b *networkBackend) materialize(ctx context.Context, node string, n *model.Network) error {
	subnet, err := subnetOf(n)
	if err != nil {
		return fmt.Errorf("%w: %v", v1.ErrBadRequest, err)
	}
	router := routerOf(n)
	steps := []saga.Step{
		{
			Name: "create-network",
			Action: func(ctx context.Context) error {
				return b.provider.CreateNetwork(ctx, node, n.Name, n.CIDR)
			},
			Compensate: func(ctx context.Context) error {
				return cloud.IgnoreNotFound(b.provider.DeleteNetwork(ctx, node, n.Name))
			},
		},
		{
			Name: "create-subnet",
			Action: func(ctx context.Context) error {
				return b.provider.CreateSubnet(ctx, node, subnet)
			},
			Compensate: func(ctx context.Context) error {
				return cloud.IgnoreNotFound(b.provider.DeleteSubnet(ctx, node, subnet))
			},
		},
		{
			Name: "create-router",
			Action: func(ctx context.Context) error {
				return b.provider.CreateRouter(ctx, node, router, b.external)
			},
			Compensate: func(ctx context.Context) error {
				return cloud.IgnoreNotFound(b.provider.DeleteRouter(ctx, node, router))
			},
		},
		{
			Name: "attach-router",
			Action: func(ctx context.Context) error {
				return b.provider.AttachRouter(ctx, node, router, subnet)
			},
		},
	}
	return saga.New("network", n.Name+"@"+node, steps, b.sagaOptions()...).Run(ctx)
}

// teardown reverses materialize. Missing pieces count as removed.
func (b *networkBackend) teardown(ctx context.Context, node string, n *model.Network) error {
	subnet, err := subnetOf(n)
	if err != nil {
		return err
	}
	router := routerOf(n)
	if err := cloud.IgnoreNotFound(b.provider.DetachRouter(ctx, node, router, subnet)); err != nil {
		return err
	}
	if err := cloud.IgnoreNotFound(b.provider.DeleteRouter(ctx, node, router)); err != nil {
		return err
	}
	if err := cloud.IgnoreNotFound(b.provider.DeleteSubnet(ctx, node, subnet)); err != nil {
		return err
	}
	return cloud.IgnoreNotFound(b.provider.DeleteNetwork(ctx, node, n.Name))
}
