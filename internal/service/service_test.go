package service_test

import (
	"context"
	"testing"
	"time"

	"cloudrent/internal/cloud"
	"cloudrent/internal/model"
	"cloudrent/internal/repository"
	"cloudrent/internal/repository/repotest"
	"cloudrent/internal/service"
	"cloudrent/pkg/log"
	"cloudrent/pkg/metrics"
	"cloudrent/pkg/sid"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

const (
	node1 = "node1"
	node2 = "node2"
)

var ctx = context.Background()

// env is one wired service layer over a private sqlite database.
type env struct {
	srv  *service.Service
	conf *viper.Viper

	networkRepo       repository.NetworkRepository
	flavorRepo        repository.FlavorRepository
	rentalRepo        repository.RentalRepository
	inconsistencyRepo repository.InconsistencyRepository
	metrics           *metrics.Metrics

	networks       service.NetworkManager
	flavors        service.FlavorManager
	rentals        service.RentalService
	expiry         service.ExpiryService
	inconsistency  service.InconsistencyService
	catalog        service.CatalogService
	decommissioner *service.Decommissioner
}

func newEnv(t *testing.T, provider cloud.Provider) *env {
	t.Helper()
	conf := viper.New()
	conf.Set("cloud.external_network", "public")
	conf.Set("rental.server_network", "internal")

	repo := repotest.NewRepository(t)
	e := &env{
		networkRepo:       repository.NewNetworkRepository(repo),
		flavorRepo:        repository.NewFlavorRepository(repo),
		rentalRepo:        repository.NewRentalRepository(repo),
		inconsistencyRepo: repository.NewInconsistencyRepository(repo),
		metrics:           metrics.NewMetrics(),
	}
	srv := service.NewService(repository.NewTransaction(repo), log.NewNop(), sid.NewSid(), e.metrics)
	e.srv, e.conf = srv, conf
	e.networks = service.NewNetworkManager(srv, e.networkRepo, provider, conf)
	e.flavors = service.NewFlavorManager(srv, e.flavorRepo, provider)
	e.decommissioner = service.NewDecommissioner(srv, e.rentalRepo, e.networks, e.flavors, provider)
	e.rentals = service.NewRentalService(srv, conf, e.rentalRepo, e.inconsistencyRepo, e.networks, e.flavors, provider, e.decommissioner)
	e.expiry = service.NewExpiryService(srv, e.rentalRepo, e.decommissioner)
	e.inconsistency = service.NewInconsistencyService(srv, e.inconsistencyRepo)
	e.catalog = service.NewCatalogService(srv, provider, e.flavorRepo, e.rentalRepo)

	require.NoError(t, e.networkRepo.MarkDefault(ctx, &model.Network{Name: "internal", CIDR: "10.0.0.0/16"}))
	require.NoError(t, e.networkRepo.MarkDefault(ctx, &model.Network{Name: "public", CIDR: "172.24.4.0/24"}))
	require.NoError(t, e.flavorRepo.MarkDefault(ctx, &model.Flavor{Name: "m1.tiny", VCPU: 1, RAM: 512, Disk: 1}))
	return e
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func serverRequest(name, network string) *service.ProvisionRequest {
	return &service.ProvisionRequest{
		Kind:      model.RentalKindServer,
		UserName:  "alice",
		Name:      name,
		Image:     "ubuntu-22.04",
		Node:      node1,
		Network:   service.NetworkSpec{Name: network, CIDR: "10.10.0.0/24"},
		Flavor:    service.FlavorSpec{Name: "m1.small", VCPU: 2, RAM: 2048, Disk: 20},
		StartDate: date("2024-01-01"),
		EndDate:   date("2024-02-01"),
	}
}

func containerRequest(name, password string) *service.ProvisionRequest {
	return &service.ProvisionRequest{
		Kind:      model.RentalKindContainer,
		UserName:  "bob",
		Name:      name,
		Image:     "debian-12",
		Node:      node1,
		Password:  password,
		Env:       map[string]string{"FOO": "bar"},
		StartDate: date("2024-01-01"),
		EndDate:   date("2024-02-01"),
	}
}
