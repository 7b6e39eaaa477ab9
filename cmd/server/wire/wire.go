//go:build wireinject
// +build wireinject

package wire

import (
	"cloudrent/internal/cloud/drivers"
	"cloudrent/internal/handler"
	"cloudrent/internal/job"
	"cloudrent/internal/repository"
	"cloudrent/internal/router"
	"cloudrent/internal/server"
	"cloudrent/internal/service"
	"cloudrent/pkg/app"
	"cloudrent/pkg/jwt"
	"cloudrent/pkg/log"
	"cloudrent/pkg/metrics"
	"cloudrent/pkg/server/http"
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

var cloudSet = wire.NewSet(
	drivers.NewProvider,
)

var serviceSet = wire.NewSet(
	service.NewService,
	service.NewNetworkManager,
	service.NewFlavorManager,
	service.NewDecommissioner,
	service.NewRentalService,
	service.NewExpiryService,
	service.NewInconsistencyService,
	service.NewCatalogService,
)

var handlerSet = wire.NewSet(
	handler.NewHandler,
	handler.NewRentalHandler,
	handler.NewCatalogHandler,
	handler.NewAdminHandler,
)

var jobSet = wire.NewSet(
	job.NewJob,
	job.NewLocker,
	job.NewExpiryJob,
)
var serverSet = wire.NewSet(
	server.NewHTTPServer,
	server.NewJobServer,
)

// build App
func newApp(
	httpServer *http.Server,
	jobServer *server.JobServer,
) *app.App {
	return app.NewApp(
		app.WithServer(httpServer, jobServer),
		app.WithName("cloudrent-server"),
	)
}

func NewWire(*viper.Viper, *log.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		repositorySet,
		cloudSet,
		serviceSet,
		handlerSet,
		jobSet,
		serverSet,
		wire.Struct(new(router.RouterDeps), "*"),
		metrics.NewMetrics,
		sid.NewSid,
		jwt.NewJwt,
		newApp,
	))
}
