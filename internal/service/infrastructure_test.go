package service_test

import (
	"context"
	"errors"
	"testing"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/cloud"
	"cloudrent/internal/cloud/memory"
	"cloudrent/internal/model"
	"cloudrent/internal/repository"
	"cloudrent/internal/saga"
	"cloudrent/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkManager_EnsureOncePerNode(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)

	rec, created, err := e.networks.Ensure(ctx, node1, &model.Network{Name: "tenant", CIDR: "10.1.0.0/24"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "10.1.0.0/24", rec.CIDR)
	assert.True(t, provider.HasNetwork(node1, "tenant"))
	assert.True(t, provider.HasRouter(node1, "tenant-router"))

	// the stored record wins over a conflicting request
	rec, created, err = e.networks.Ensure(ctx, node1, &model.Network{Name: "tenant", CIDR: "10.2.0.0/24"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "10.1.0.0/24", rec.CIDR)
	assert.Equal(t, 1, provider.Calls(memory.OpCreateNetwork))

	_, created, err = e.networks.Ensure(ctx, node2, &model.Network{Name: "tenant"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, provider.HasNetwork(node2, "tenant"))

	nodes, err := e.networkRepo.CountNodes(ctx, "tenant")
	require.NoError(t, err)
	assert.EqualValues(t, 2, nodes)
}

func TestNetworkManager_ReleaseLastNodeDeletesRecord(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)

	for _, node := range []string{node1, node2} {
		_, _, err := e.networks.Ensure(ctx, node, &model.Network{Name: "tenant", CIDR: "10.1.0.0/24"})
		require.NoError(t, err)
	}

	require.NoError(t, e.networks.Release(ctx, node1, "tenant"))
	assert.False(t, provider.HasNetwork(node1, "tenant"))
	assert.False(t, provider.HasRouter(node1, "tenant-router"))
	assert.True(t, provider.HasNetwork(node2, "tenant"))
	rec, err := e.networkRepo.Get(ctx, "tenant")
	require.NoError(t, err)
	assert.NotNil(t, rec)

	require.NoError(t, e.networks.Release(ctx, node2, "tenant"))
	assert.False(t, provider.HasNetwork(node2, "tenant"))
	rec, err = e.networkRepo.Get(ctx, "tenant")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// converged: nothing left to do
	require.NoError(t, e.networks.Release(ctx, node2, "tenant"))
}

func TestNetworkManager_ReleaseKeepsNetworkInUse(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)

	_, _, err := e.networks.Ensure(ctx, node1, &model.Network{Name: "tenant", CIDR: "10.1.0.0/24"})
	require.NoError(t, err)
	_, err = e.rentalRepo.Create(ctx, &model.Rental{
		Kind: model.RentalKindContainer, UserName: "bob", Name: "ct1",
		NodeName: node1, NetworkName: "tenant",
		StartDate: date("2024-01-01"), EndDate: date("2024-02-01"),
	})
	require.NoError(t, err)

	require.NoError(t, e.networks.Release(ctx, node1, "tenant"))
	assert.True(t, provider.HasNetwork(node1, "tenant"))
	assert.Zero(t, provider.Calls(memory.OpDeleteNetwork))
}

func TestNetworkManager_DefaultNeverTouched(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)

	_, created, err := e.networks.Ensure(ctx, node1, &model.Network{Name: "internal"})
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, e.networks.Release(ctx, node1, "internal"))

	assert.Zero(t, provider.Calls(memory.OpCreateNetwork))
	assert.Zero(t, provider.Calls(memory.OpDeleteNetwork))
	rec, err := e.networkRepo.Get(ctx, "internal")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Protected())
}

func TestNetworkManager_MaterializeFailureRollsBack(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)
	provider.Fail(memory.OpCreateRouter, errors.New("router quota exceeded"))

	_, _, err := e.networks.Ensure(ctx, node1, &model.Network{Name: "tenant", CIDR: "10.1.0.0/24"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cloud.ErrProvider)
	assert.NotErrorIs(t, err, saga.ErrCompensationFailed)
	assert.False(t, provider.HasNetwork(node1, "tenant"))

	nodes, err := e.networkRepo.CountNodes(ctx, "tenant")
	require.NoError(t, err)
	assert.Zero(t, nodes)

	// a later attempt starts from scratch
	provider.Heal(memory.OpCreateRouter)
	_, created, err := e.networks.Ensure(ctx, node1, &model.Network{Name: "tenant", CIDR: "10.1.0.0/24"})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestNetworkManager_MaterializeCompensationFailure(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)
	provider.Fail(memory.OpAttachRouter, errors.New("port busy"))
	provider.Fail(memory.OpDeleteSubnet, errors.New("subnet locked"))

	_, _, err := e.networks.Ensure(ctx, node1, &model.Network{Name: "tenant", CIDR: "10.1.0.0/24"})
	require.Error(t, err)
	assert.ErrorIs(t, err, saga.ErrCompensationFailed)

	failures := saga.Failures(err)
	require.Len(t, failures, 1)
	assert.Equal(t, "create-subnet", failures[0].Step)
}

func TestNetworkManager_NewNetworkNeedsCIDR(t *testing.T) {
	e := newEnv(t, memory.New())

	_, _, err := e.networks.Ensure(ctx, node1, &model.Network{Name: "tenant"})
	assert.ErrorIs(t, err, v1.ErrBadRequest)
}

func TestFlavorManager_EnsureAndAbandon(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)

	rec, created, err := e.flavors.Ensure(ctx, node1, &model.Flavor{Name: "m1.small", VCPU: 2, RAM: 2048, Disk: 20})
	require.NoError(t, err)
	require.True(t, created)
	assert.True(t, provider.HasProfile(node1, "m1.small"))

	require.NoError(t, e.flavors.Abandon(ctx, node1, rec))
	assert.False(t, provider.HasProfile(node1, "m1.small"))
	stored, err := e.flavorRepo.Get(ctx, "m1.small")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestFlavorManager_InvalidFlavor(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)

	_, _, err := e.flavors.Ensure(ctx, node1, &model.Flavor{Name: "m1.broken", VCPU: 0, RAM: 512, Disk: 1})
	assert.ErrorIs(t, err, v1.ErrBadRequest)
	assert.Zero(t, provider.Calls(memory.OpCreateProfile))
}

// recordingNetworks notes the order of the calls that guard a shared network.
// vanish deletes the record just before the next lock, as a concurrent release
// committing while we wait would.
type recordingNetworks struct {
	repository.NetworkRepository
	calls  []string
	vanish bool
}

func (r *recordingNetworks) GetForUpdate(ctx context.Context, name string) (*model.Network, error) {
	r.calls = append(r.calls, "lock")
	if r.vanish {
		r.vanish = false
		if err := r.NetworkRepository.Delete(ctx, name); err != nil {
			return nil, err
		}
	}
	return r.NetworkRepository.GetForUpdate(ctx, name)
}

func (r *recordingNetworks) ClaimNode(ctx context.Context, node, name string) (bool, error) {
	r.calls = append(r.calls, "claim")
	return r.NetworkRepository.ClaimNode(ctx, node, name)
}

func (r *recordingNetworks) CountConsumers(ctx context.Context, node, name string) (int64, error) {
	r.calls = append(r.calls, "count")
	return r.NetworkRepository.CountConsumers(ctx, node, name)
}

func TestNetworkManager_LocksBeforeClaimAndCount(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)
	repo := &recordingNetworks{NetworkRepository: e.networkRepo}
	networks := service.NewNetworkManager(e.srv, repo, provider, e.conf)

	_, created, err := networks.Ensure(ctx, node1, &model.Network{Name: "tenant", CIDR: "10.1.0.0/24"})
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = networks.Ensure(ctx, node1, &model.Network{Name: "tenant"})
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, networks.Release(ctx, node1, "tenant"))

	assert.Equal(t, []string{"lock", "claim", "lock", "claim", "lock", "count"}, repo.calls)

	// defaults are shared by every rental and never locked
	repo.calls = nil
	_, _, err = networks.Ensure(ctx, node1, &model.Network{Name: "internal"})
	require.NoError(t, err)
	assert.Empty(t, repo.calls)
}

func TestNetworkManager_EnsureRecreatesRecordReleasedMeanwhile(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)
	repo := &recordingNetworks{NetworkRepository: e.networkRepo}
	networks := service.NewNetworkManager(e.srv, repo, provider, e.conf)

	_, _, err := networks.Ensure(ctx, node1, &model.Network{Name: "tenant", CIDR: "10.1.0.0/24"})
	require.NoError(t, err)
	require.NoError(t, networks.Release(ctx, node1, "tenant"))
	_, err = e.networkRepo.CreateIfAbsent(ctx, &model.Network{Name: "tenant", CIDR: "10.1.0.0/24"})
	require.NoError(t, err)

	repo.calls, repo.vanish = nil, true
	rec, created, err := networks.Ensure(ctx, node1, &model.Network{Name: "tenant", CIDR: "10.1.0.0/24"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "10.1.0.0/24", rec.CIDR)
	assert.Equal(t, []string{"lock", "lock", "claim"}, repo.calls)
	assert.True(t, provider.HasNetwork(node1, "tenant"))
}
