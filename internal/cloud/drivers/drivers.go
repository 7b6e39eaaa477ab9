// Package drivers selects the cloud backend named by cloud.driver.
package drivers

import (
	"fmt"

	"cloudrent/internal/cloud"
	hcloudprovider "cloudrent/internal/cloud/hcloud"
	"cloudrent/internal/cloud/memory"
	pveprovider "cloudrent/internal/cloud/proxmox"
	"cloudrent/pkg/log"
	"cloudrent/pkg/proxmox"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func NewProvider(conf *viper.Viper, logger *log.Logger) (cloud.Provider, func(), error) {
	var (
		provider cloud.Provider
		cleanup  = func() {}
	)

	driver := conf.GetString("cloud.driver")
	switch driver {
	case "", "memory":
		driver = "memory"
		provider = memory.New()
	case "proxmox":
		var opts []proxmox.Option
		if conf.GetBool("cloud.proxmox.insecure") {
			opts = append(opts, proxmox.WithInsecureTLS())
		}
		client, err := proxmox.NewProxmoxClient(
			conf.GetString("cloud.proxmox.api_url"),
			conf.GetString("cloud.proxmox.user_id"),
			conf.GetString("cloud.proxmox.user_token"),
			opts...,
		)
		if err != nil {
			return nil, nil, err
		}
		provider = pveprovider.New(client, pveprovider.Options{
			Zone:           conf.GetString("cloud.proxmox.sdn_zone"),
			Storage:        conf.GetString("cloud.proxmox.storage"),
			FullClone:      conf.GetBool("cloud.proxmox.full_clone"),
			TaskTimeout:    conf.GetDuration("cloud.proxmox.task_timeout"),
			AddressTimeout: conf.GetDuration("cloud.proxmox.address_timeout"),
		}, logger)
		cleanup = client.CloseIdleConnections
	case "hcloud":
		hopts := []hcloud.ClientOption{
			hcloud.WithToken(conf.GetString("cloud.hcloud.token")),
			hcloud.WithApplication("cloudrent", "1.0"),
		}
		if endpoint := conf.GetString("cloud.hcloud.endpoint"); endpoint != "" {
			hopts = append(hopts, hcloud.WithEndpoint(endpoint))
		}
		provider = hcloudprovider.New(hcloud.NewClient(hopts...), hcloudprovider.Options{
			NetworkZone: conf.GetString("cloud.hcloud.network_zone"),
		}, logger)
	default:
		return nil, nil, fmt.Errorf("unknown cloud driver %q", driver)
	}

	logger.Info("cloud provider ready", zap.String("driver", driver), zap.Duration("timeout", conf.GetDuration("cloud.timeout")))
	return cloud.WithTimeout(provider, conf.GetDuration("cloud.timeout")), cleanup, nil
}
