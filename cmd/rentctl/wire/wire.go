//go:build wireinject
// +build wireinject

package wire

import (
	"cloudrent/internal/cloud/drivers"
	"cloudrent/internal/job"
	"cloudrent/internal/repository"
	"cloudrent/internal/service"
	"cloudrent/pkg/log"
	"cloudrent/pkg/metrics"
	"cloudrent/pkg/sid"

	"github.com/google/wire"
	"github.com/spf13/viper"
)

var repositorySet = wire.NewSet(
	repository.NewDB,
	repository.NewRedis,
	repository.NewRepository,
	repository.NewTransaction,
	repository.NewRentalRepository,
	repository.NewNetworkRepository,
	repository.NewFlavorRepository,
	repository.NewInconsistencyRepository,
)

var serviceSet = wire.NewSet(
	service.NewService,
	service.NewNetworkManager,
	service.NewFlavorManager,
	service.NewDecommissioner,
	service.NewRentalService,
	service.NewExpiryService,
	service.NewInconsistencyService,
)

// a manual sweep takes the same lock as the server's scheduled one
var jobSet = wire.NewSet(
	job.NewJob,
	job.NewLocker,
	job.NewExpiryJob,
)

func NewWire(*viper.Viper, *log.Logger) (*Console, func(), error) {
	panic(wire.Build(
		repositorySet,
		serviceSet,
		jobSet,
		drivers.NewProvider,
		metrics.NewMetrics,
		sid.NewSid,
		wire.Struct(new(Console), "*"),
	))
}
