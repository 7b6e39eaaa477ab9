// Package hcloud backs the rental service with Hetzner Cloud. Nodes are locations
// (fsn1, nbg1, ...). Tenant networks are private networks scoped to a location by
// name; routing to the internet is implicit, so routers are no-ops.
package hcloud

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"cloudrent/internal/cloud"
	"cloudrent/internal/model"
	"cloudrent/pkg/log"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"go.uber.org/zap"
)

const (
	labelManagedBy = "managed-by"
	labelInstance  = "cloudrent-instance"
	managedBy      = "cloudrent"
)

type Options struct {
	NetworkZone string // eu-central, us-east, ...
}

type Provider struct {
	client *hcloud.Client
	opts   Options
	logger *log.Logger
}

func New(client *hcloud.Client, opts Options, logger *log.Logger) *Provider {
	if opts.NetworkZone == "" {
		opts.NetworkZone = string(hcloud.NetworkZoneEUCentral)
	}
	return &Provider{client: client, opts: opts, logger: logger}
}

// networkName scopes a tenant network to a location; hcloud names are project wide.
func networkName(node, name string) string {
	return node + "-" + name
}

func labels(extra map[string]string) map[string]string {
	l := map[string]string{labelManagedBy: managedBy}
	for k, v := range extra {
		l[k] = v
	}
	return l
}

func (p *Provider) getNetwork(ctx context.Context, op, node, name string) (*hcloud.Network, error) {
	network, _, err := p.client.Network.Get(ctx, networkName(node, name))
	if err != nil {
		return nil, cloud.Wrap(op, node, name, err)
	}
	if network == nil {
		return nil, cloud.NotFound(op, node, name)
	}
	return network, nil
}

func (p *Provider) CreateNetwork(ctx context.Context, node, name, cidr string) error {
	_, ipRange, err := net.ParseCIDR(cidr)
	if err != nil {
		return cloud.Wrap("create-network", node, name, err)
	}
	_, _, err = p.client.Network.Create(ctx, hcloud.NetworkCreateOpts{
		Name:    networkName(node, name),
		IPRange: ipRange,
		Labels:  labels(nil),
	})
	return cloud.Wrap("create-network", node, name, err)
}

func (p *Provider) DeleteNetwork(ctx context.Context, node, name string) error {
	network, err := p.getNetwork(ctx, "delete-network", node, name)
	if err != nil {
		return err
	}
	_, err = p.client.Network.Delete(ctx, network)
	return cloud.Wrap("delete-network", node, name, err)
}

func (p *Provider) CreateSubnet(ctx context.Context, node string, subnet cloud.SubnetSpec) error {
	network, err := p.getNetwork(ctx, "create-subnet", node, subnet.Network)
	if err != nil {
		return err
	}
	_, ipRange, err := net.ParseCIDR(subnet.CIDR)
	if err != nil {
		return cloud.Wrap("create-subnet", node, subnet.Name, err)
	}
	action, _, err := p.client.Network.AddSubnet(ctx, network, hcloud.NetworkAddSubnetOpts{
		Subnet: hcloud.NetworkSubnet{
			Type:        hcloud.NetworkSubnetTypeCloud,
			IPRange:     ipRange,
			NetworkZone: hcloud.NetworkZone(p.opts.NetworkZone),
		},
	})
	if err != nil {
		return cloud.Wrap("create-subnet", node, subnet.Name, err)
	}
	return cloud.Wrap("create-subnet", node, subnet.Name, p.client.Action.WaitFor(ctx, action))
}

func (p *Provider) DeleteSubnet(ctx context.Context, node string, subnet cloud.SubnetSpec) error {
	network, err := p.getNetwork(ctx, "delete-subnet", node, subnet.Network)
	if err != nil {
		return err
	}
	var target *hcloud.NetworkSubnet
	for i := range network.Subnets {
		if network.Subnets[i].IPRange != nil && network.Subnets[i].IPRange.String() == subnet.CIDR {
			target = &network.Subnets[i]
		}
	}
	if target == nil {
		return cloud.NotFound("delete-subnet", node, subnet.Name)
	}
	action, _, err := p.client.Network.DeleteSubnet(ctx, network, hcloud.NetworkDeleteSubnetOpts{Subnet: *target})
	if err != nil {
		return cloud.Wrap("delete-subnet", node, subnet.Name, err)
	}
	return cloud.Wrap("delete-subnet", node, subnet.Name, p.client.Action.WaitFor(ctx, action))
}

func (p *Provider) CreateRouter(ctx context.Context, node, name, externalNetwork string) error {
	p.logger.WithContext(ctx).Debug("hcloud routers are implicit", zap.String("node", node), zap.String("router", name))
	return nil
}

func (p *Provider) AttachRouter(ctx context.Context, node, router string, subnet cloud.SubnetSpec) error {
	return nil
}

func (p *Provider) DetachRouter(ctx context.Context, node, router string, subnet cloud.SubnetSpec) error {
	return nil
}

func (p *Provider) DeleteRouter(ctx context.Context, node, name string) error {
	return nil
}

// CreateProfile verifies that some server type available in the location satisfies
// the profile. Hetzner has no custom flavors.
func (p *Provider) CreateProfile(ctx context.Context, node string, profile cloud.ProfileSpec) error {
	_, err := p.serverType(ctx, node, profile)
	return err
}

func (p *Provider) DeleteProfile(ctx context.Context, node, name string) error {
	return nil
}

func (p *Provider) serverType(ctx context.Context, node string, profile cloud.ProfileSpec) (*hcloud.ServerType, error) {
	types, err := p.client.ServerType.All(ctx)
	if err != nil {
		return nil, cloud.Wrap("create-profile", node, profile.Name, err)
	}
	st := pickServerType(types, profile)
	if st == nil {
		return nil, cloud.Wrap("create-profile", node, profile.Name,
			fmt.Errorf("no server type offers %d vcpus, %d MiB and %d GiB", profile.VCPU, profile.RAM, profile.Disk))
	}
	return st, nil
}

// pickServerType returns the smallest type that covers the profile.
func pickServerType(types []*hcloud.ServerType, profile cloud.ProfileSpec) *hcloud.ServerType {
	var fits []*hcloud.ServerType
	for _, st := range types {
		if st.Cores >= profile.VCPU && int(st.Memory*1024) >= profile.RAM && st.Disk >= profile.Disk {
			fits = append(fits, st)
		}
	}
	if len(fits) == 0 {
		return nil
	}
	sort.Slice(fits, func(i, j int) bool {
		if fits[i].Cores != fits[j].Cores {
			return fits[i].Cores < fits[j].Cores
		}
		if fits[i].Memory != fits[j].Memory {
			return fits[i].Memory < fits[j].Memory
		}
		return fits[i].Disk < fits[j].Disk
	})
	return fits[0]
}

func (p *Provider) CreateInstance(ctx context.Context, node string, req cloud.InstanceRequest) (*cloud.Instance, error) {
	if req.Kind == model.RentalKindContainer || req.Profile == nil {
		return nil, cloud.Wrap("create-instance", node, req.Name, cloud.ErrUnsupported)
	}
	st, err := p.serverType(ctx, node, *req.Profile)
	if err != nil {
		return nil, err
	}
	image, _, err := p.client.Image.GetForArchitecture(ctx, req.Image, st.Architecture)
	if err != nil {
		return nil, cloud.Wrap("create-instance", node, req.Name, err)
	}
	if image == nil {
		return nil, cloud.Wrap("create-instance", node, req.Name, fmt.Errorf("image %s not found", req.Image))
	}
	location, _, err := p.client.Location.Get(ctx, node)
	if err != nil {
		return nil, cloud.Wrap("create-instance", node, req.Name, err)
	}
	if location == nil {
		return nil, cloud.Wrap("create-instance", node, req.Name, fmt.Errorf("location %s not found", node))
	}
	network, err := p.getNetwork(ctx, "create-instance", node, req.Network)
	if err != nil {
		return nil, err
	}

	result, _, err := p.client.Server.Create(ctx, hcloud.ServerCreateOpts{
		Name:       req.Name,
		ServerType: st,
		Image:      image,
		Location:   location,
		Networks:   []*hcloud.Network{network},
		Labels:     labels(req.Tags),
		UserData:   userData(req.AuthorizedKeys),
	})
	if err != nil {
		return nil, cloud.Wrap("create-instance", node, req.Name, err)
	}
	actions := append([]*hcloud.Action{result.Action}, result.NextActions...)
	if err := p.client.Action.WaitFor(ctx, actions...); err != nil {
		return nil, cloud.Wrap("create-instance", node, req.Name, err)
	}

	inst := &cloud.Instance{ID: strconv.FormatInt(result.Server.ID, 10), Name: req.Name, Node: node}
	for _, pn := range result.Server.PrivateNet {
		inst.Addresses = append(inst.Addresses, pn.IP.String())
	}
	return inst, nil
}

// userData installs keys through cloud-init, so no project-wide hcloud SSH key
// has to be created and cleaned up per rental.
func userData(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("#cloud-config\nssh_authorized_keys:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  - %q\n", k)
	}
	return b.String()
}

func (p *Provider) DeleteInstance(ctx context.Context, node, id string) error {
	serverID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return cloud.Wrap("delete-instance", node, id, err)
	}
	server, _, err := p.client.Server.GetByID(ctx, serverID)
	if err != nil {
		return cloud.Wrap("delete-instance", node, id, err)
	}
	if server == nil {
		return cloud.NotFound("delete-instance", node, id)
	}
	result, _, err := p.client.Server.DeleteWithResult(ctx, server)
	if err != nil {
		return cloud.Wrap("delete-instance", node, id, err)
	}
	return cloud.Wrap("delete-instance", node, id, p.client.Action.WaitFor(ctx, result.Action))
}

// AllocateAddress creates a floating IPv4 assigned to the instance.
func (p *Provider) AllocateAddress(ctx context.Context, node string, instance *cloud.Instance) (string, error) {
	id, err := strconv.ParseInt(instance.ID, 10, 64)
	if err != nil {
		return "", cloud.Wrap("allocate-address", node, instance.Name, err)
	}
	result, _, err := p.client.FloatingIP.Create(ctx, hcloud.FloatingIPCreateOpts{
		Type:   hcloud.FloatingIPTypeIPv4,
		Name:   hcloud.Ptr(instance.Name + "-fip"),
		Server: &hcloud.Server{ID: id},
		Labels: labels(map[string]string{labelInstance: instance.Name}),
	})
	if err != nil {
		return "", cloud.Wrap("allocate-address", node, instance.Name, err)
	}
	if result.Action != nil {
		if err := p.client.Action.WaitFor(ctx, result.Action); err != nil {
			return "", cloud.Wrap("allocate-address", node, instance.Name, err)
		}
	}
	return result.FloatingIP.IP.String(), nil
}

func (p *Provider) ReleaseAddress(ctx context.Context, node, address string) error {
	fips, err := p.client.FloatingIP.AllWithOpts(ctx, hcloud.FloatingIPListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: labelManagedBy + "=" + managedBy},
	})
	if err != nil {
		return cloud.Wrap("release-address", node, address, err)
	}
	for _, fip := range fips {
		if fip.IP.String() == address {
			_, err := p.client.FloatingIP.Delete(ctx, fip)
			return cloud.Wrap("release-address", node, address, err)
		}
	}
	return cloud.NotFound("release-address", node, address)
}

// ListImages names the available system images. Images are project wide, so node
// only scopes errors.
func (p *Provider) ListImages(ctx context.Context, node string) ([]string, error) {
	images, err := p.client.Image.AllWithOpts(ctx, hcloud.ImageListOpts{
		Type:   []hcloud.ImageType{hcloud.ImageTypeSystem},
		Status: []hcloud.ImageStatus{hcloud.ImageStatusAvailable},
	})
	if err != nil {
		return nil, cloud.Wrap("list-images", node, "", err)
	}
	names := make([]string, 0, len(images))
	for _, image := range images {
		names = append(names, image.Name)
	}
	// one entry per architecture
	names = slice.Unique(names)
	sort.Strings(names)
	return names, nil
}
