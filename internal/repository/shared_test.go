package repository_test

import (
	"context"
	"testing"

	"cloudrent/internal/model"
	"cloudrent/internal/repository"
	"cloudrent/internal/repository/repotest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkRepository_ClaimAndRelease(t *testing.T) {
	repo := repository.NewNetworkRepository(repotest.NewRepository(t))
	ctx := context.Background()

	created, err := repo.CreateIfAbsent(ctx, &model.Network{Name: "tenant", CIDR: "10.0.0.0/24"})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.CreateIfAbsent(ctx, &model.Network{Name: "tenant", CIDR: "10.9.0.0/24"})
	require.NoError(t, err)
	assert.False(t, created)

	claimed, err := repo.ClaimNode(ctx, "node1", "tenant")
	require.NoError(t, err)
	assert.True(t, claimed)
	claimed, err = repo.ClaimNode(ctx, "node1", "tenant")
	require.NoError(t, err)
	assert.False(t, claimed)
	claimed, err = repo.ClaimNode(ctx, "node2", "tenant")
	require.NoError(t, err)
	assert.True(t, claimed)

	n, err := repo.CountNodes(ctx, "tenant")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	released, err := repo.ReleaseNode(ctx, "node1", "tenant")
	require.NoError(t, err)
	assert.True(t, released)
	released, err = repo.ReleaseNode(ctx, "node1", "tenant")
	require.NoError(t, err)
	assert.False(t, released)

	n, err = repo.CountNodes(ctx, "tenant")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestFlavorRepository_CountConsumers(t *testing.T) {
	r := repotest.NewRepository(t)
	flavors := repository.NewFlavorRepository(r)
	rentals := repository.NewRentalRepository(r)
	ctx := context.Background()

	_, err := rentals.Create(ctx, newRental("vm1", "2024-02-01"))
	require.NoError(t, err)
	other := newRental("vm2", "2024-02-01")
	other.NodeName = "node2"
	_, err = rentals.Create(ctx, other)
	require.NoError(t, err)

	n, err := flavors.CountConsumers(ctx, "node1", "m1.small")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = flavors.CountConsumers(ctx, "node3", "m1.small")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestFlavorRepository_MarkDefault(t *testing.T) {
	repo := repository.NewFlavorRepository(repotest.NewRepository(t))
	ctx := context.Background()

	_, err := repo.CreateIfAbsent(ctx, &model.Flavor{Name: "m1.tiny", VCPU: 1, RAM: 512, Disk: 1})
	require.NoError(t, err)
	require.NoError(t, repo.MarkDefault(ctx, &model.Flavor{Name: "m1.tiny", VCPU: 1, RAM: 512, Disk: 1}))

	got, err := repo.Get(ctx, "m1.tiny")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Protected())
}

func TestNetworkRepository_GetForUpdateLocksRow(t *testing.T) {
	r, mock := newMockRepository(t)
	repo := repository.NewNetworkRepository(r)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `network` WHERE name = \\? ORDER BY `network`.`id` LIMIT .+ FOR UPDATE").
		WithArgs("tenant", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "cidr"}).AddRow(7, "tenant", "10.0.0.0/24"))
	mock.ExpectCommit()

	var got *model.Network
	err := r.Transaction(context.Background(), func(ctx context.Context) error {
		var err error
		got, err = repo.GetForUpdate(ctx, "tenant")
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "10.0.0.0/24", got.CIDR)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlavorRepository_GetForUpdateMissing(t *testing.T) {
	repo := repository.NewFlavorRepository(repotest.NewRepository(t))

	got, err := repo.GetForUpdate(context.Background(), "m1.nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFlavorRepository_List(t *testing.T) {
	repo := repository.NewFlavorRepository(repotest.NewRepository(t))
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, f := range []*model.Flavor{
		{Name: "m1.small", VCPU: 2, RAM: 2048, Disk: 20},
		{Name: "m1.large", VCPU: 8, RAM: 16384, Disk: 160},
	} {
		_, err := repo.CreateIfAbsent(ctx, f)
		require.NoError(t, err)
	}
	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m1.large", list[0].Name)
	assert.Equal(t, "m1.small", list[1].Name)
}
