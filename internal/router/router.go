package router

import (
	"cloudrent/internal/handler"
	"cloudrent/pkg/jwt"
	"cloudrent/pkg/log"
	"cloudrent/pkg/metrics"

	"github.com/spf13/viper"
)

type RouterDeps struct {
	Logger         *log.Logger
	Config         *viper.Viper
	JWT            *jwt.JWT
	Metrics        *metrics.Metrics
	RentalHandler  *handler.RentalHandler
	CatalogHandler *handler.CatalogHandler
	AdminHandler   *handler.AdminHandler
}
