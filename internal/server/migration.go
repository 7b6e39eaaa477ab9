package server

import (
	"context"
	"fmt"
	"os"

	"cloudrent/internal/model"
	"cloudrent/internal/repository"
	"cloudrent/pkg/log"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateServer struct {
	db          *gorm.DB
	log         *log.Logger
	conf        *viper.Viper
	networkRepo repository.NetworkRepository
	flavorRepo  repository.FlavorRepository
}

func NewMigrateServer(
	db *gorm.DB,
	log *log.Logger,
	conf *viper.Viper,
	networkRepo repository.NetworkRepository,
	flavorRepo repository.FlavorRepository,
) *MigrateServer {
	return &MigrateServer{
		db:          db,
		log:         log,
		conf:        conf,
		networkRepo: networkRepo,
		flavorRepo:  flavorRepo,
	}
}

func (m *MigrateServer) Start(ctx context.Context) error {
	if err := repository.AutoMigrate(m.db); err != nil {
		m.log.Error("migrate error", zap.Error(err))
		return err
	}
	m.log.Info("AutoMigrate success")

	if err := m.SeedDefaults(ctx); err != nil {
		m.log.Error("seed defaults error", zap.Error(err))
		return err
	}

	os.Exit(0)
	return nil
}

// SeedDefaults registers the configured default networks and flavors. Defaults are
// shared by every node and never created or removed by the rental service.
func (m *MigrateServer) SeedDefaults(ctx context.Context) error {
	var networks []model.Network
	if err := m.conf.UnmarshalKey("cloud.defaults.networks", &networks); err != nil {
		return fmt.Errorf("cloud.defaults.networks: %w", err)
	}
	for i := range networks {
		if err := networks[i].Validate(); err != nil {
			return err
		}
		if err := m.networkRepo.MarkDefault(ctx, &networks[i]); err != nil {
			return err
		}
		m.log.Info("default network registered", zap.String("network", networks[i].Name), zap.String("cidr", networks[i].CIDR))
	}

	var flavors []model.Flavor
	if err := m.conf.UnmarshalKey("cloud.defaults.flavors", &flavors); err != nil {
		return fmt.Errorf("cloud.defaults.flavors: %w", err)
	}
	for i := range flavors {
		if err := flavors[i].Validate(); err != nil {
			return err
		}
		if err := m.flavorRepo.MarkDefault(ctx, &flavors[i]); err != nil {
			return err
		}
		m.log.Info("default flavor registered", zap.String("flavor", flavors[i].Name))
	}
	return nil
}

func (m *MigrateServer) Stop(ctx context.Context) error {
	m.log.Info("AutoMigrate stop")
	return nil
}
