package proxmox

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SDN objects are cluster wide; changes stay pending until ApplySDN.

func (c *ProxmoxClient) CreateVNet(ctx context.Context, vnet, zone, alias string) error {
	params := url.Values{}
	params.Set("vnet", vnet)
	params.Set("zone", zone)
	if alias != "" {
		params.Set("alias", alias)
	}
	return c.PostForm(ctx, "/cluster/sdn/vnets", params, nil)
}

func (c *ProxmoxClient) DeleteVNet(ctx context.Context, vnet string) error {
	return c.Delete(ctx, "/cluster/sdn/vnets/"+vnet, nil, nil)
}

func (c *ProxmoxClient) CreateVNetSubnet(ctx context.Context, vnet, cidr, gateway string, snat bool) error {
	params := url.Values{}
	params.Set("type", "subnet")
	params.Set("subnet", cidr)
	if gateway != "" {
		params.Set("gateway", gateway)
	}
	if snat {
		params.Set("snat", "1")
	}
	return c.PostForm(ctx, fmt.Sprintf("/cluster/sdn/vnets/%s/subnets", vnet), params, nil)
}

// SetVNetSubnetSNAT toggles source NAT of the subnet towards the node's uplink.
func (c *ProxmoxClient) SetVNetSubnetSNAT(ctx context.Context, vnet, subnetID string, snat bool) error {
	params := url.Values{}
	if snat {
		params.Set("snat", "1")
	} else {
		params.Set("snat", "0")
	}
	return c.PutForm(ctx, fmt.Sprintf("/cluster/sdn/vnets/%s/subnets/%s", vnet, subnetID), params, nil)
}

func (c *ProxmoxClient) DeleteVNetSubnet(ctx context.Context, vnet, subnetID string) error {
	return c.Delete(ctx, fmt.Sprintf("/cluster/sdn/vnets/%s/subnets/%s", vnet, subnetID), nil, nil)
}

// ApplySDN commits pending SDN configuration to every node.
func (c *ProxmoxClient) ApplySDN(ctx context.Context) error {
	return c.PutForm(ctx, "/cluster/sdn", url.Values{}, nil)
}

// SubnetID is the id PVE assigns to a vnet subnet: zone and cidr joined by dashes.
func SubnetID(zone, cidr string) string {
	return zone + "-" + strings.ReplaceAll(cidr, "/", "-")
}
