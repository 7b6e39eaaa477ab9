package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloudrent/internal/model"
	"cloudrent/internal/repository"
	"cloudrent/internal/repository/repotest"
	"cloudrent/pkg/log"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newRental(name, end string) *model.Rental {
	return &model.Rental{
		Kind:        model.RentalKindServer,
		UserName:    "alice",
		Name:        name,
		StartDate:   date("2024-01-01"),
		EndDate:     date(end),
		NodeName:    "node1",
		NetworkName: "internal",
		FlavorName:  "m1.small",
	}
}

func TestRentalRepository_CreateRejectsDuplicateName(t *testing.T) {
	repo := repository.NewRentalRepository(repotest.NewRepository(t))
	ctx := context.Background()

	inserted, err := repo.Create(ctx, newRental("db1", "2024-06-01"))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Create(ctx, newRental("db1", "2024-07-01"))
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := repo.GetByName(ctx, "db1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.EndDate.Equal(date("2024-06-01")))
}

func TestRentalRepository_ListExpired(t *testing.T) {
	repo := repository.NewRentalRepository(repotest.NewRepository(t))
	ctx := context.Background()

	for _, r := range []*model.Rental{
		newRental("old", "2024-01-01"),
		newRental("today", "2024-01-02"),
		newRental("future", "2024-06-01"),
	} {
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}

	expired, err := repo.ListExpired(ctx, time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "old", expired[0].Name)
}

func TestRentalRepository_UpdateEndDate(t *testing.T) {
	repo := repository.NewRentalRepository(repotest.NewRepository(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newRental("vm1", "2024-02-01"))
	require.NoError(t, err)

	ok, err := repo.UpdateEndDate(ctx, "vm1", date("2024-03-01"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateEndDate(ctx, "missing", date("2024-03-01"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRentalRepository_TransactionRollback(t *testing.T) {
	r := repotest.NewRepository(t)
	repo := repository.NewRentalRepository(r)
	tm := repository.NewTransaction(r)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tm.Transaction(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, newRental("vm1", "2024-02-01")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByName(ctx, "vm1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func newMockRepository(t *testing.T) (*repository.Repository, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return repository.NewRepository(viper.New(), log.NewNop(), db), mock
}

func TestRentalRepository_GetByNameNotFound(t *testing.T) {
	r, mock := newMockRepository(t)
	repo := repository.NewRentalRepository(r)

	mock.ExpectQuery("SELECT \\* FROM `rental`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	got, err := repo.GetByName(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_GetByNameError(t *testing.T) {
	r, mock := newMockRepository(t)
	repo := repository.NewRentalRepository(r)

	mock.ExpectQuery("SELECT \\* FROM `rental`").
		WillReturnError(errors.New("connection reset"))

	got, err := repo.GetByName(context.Background(), "vm1")
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_NodeUsage(t *testing.T) {
	r := repotest.NewRepository(t)
	rentals := repository.NewRentalRepository(r)
	flavors := repository.NewFlavorRepository(r)
	ctx := context.Background()

	for _, f := range []*model.Flavor{
		{Name: "m1.small", VCPU: 2, RAM: 2048, Disk: 20},
		{Name: "m1.large", VCPU: 8, RAM: 16384, Disk: 160},
	} {
		_, err := flavors.CreateIfAbsent(ctx, f)
		require.NoError(t, err)
	}
	large := newRental("vm2", "2024-02-01")
	large.FlavorName = "m1.large"
	orphan := newRental("vm3", "2024-02-01")
	orphan.FlavorName = "gone"
	elsewhere := newRental("vm4", "2024-02-01")
	elsewhere.NodeName = "node2"
	ct := newRental("ct1", "2024-02-01")
	ct.Kind, ct.FlavorName = model.RentalKindContainer, ""
	for _, rental := range []*model.Rental{newRental("vm1", "2024-02-01"), large, orphan, elsewhere, ct} {
		_, err := rentals.Create(ctx, rental)
		require.NoError(t, err)
	}

	usage, err := rentals.NodeUsage(ctx, "node1")
	require.NoError(t, err)
	assert.Equal(t, model.NodeUsage{Count: 3, VCPUs: 10, RAM: 18432, Disk: 180}, *usage)

	usage, err = rentals.NodeUsage(ctx, "node9")
	require.NoError(t, err)
	assert.Equal(t, model.NodeUsage{}, *usage)
}
