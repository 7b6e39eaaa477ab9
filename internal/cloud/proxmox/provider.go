// Package proxmox backs the rental service with a Proxmox VE cluster. Nodes are PVE
// nodes; tenant networks are SDN vnets whose subnet gets SNAT when routed.
package proxmox

import (
	"context"
	"fmt"
	"net/netip"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloudrent/internal/cloud"
	"cloudrent/internal/model"
	"cloudrent/pkg/hash"
	"cloudrent/pkg/log"
	"cloudrent/pkg/proxmox"

	"go.uber.org/zap"
)

type Options struct {
	Zone           string // SDN zone holding tenant vnets
	Storage        string // target storage for clones and container rootfs
	FullClone      bool
	TaskTimeout    time.Duration
	AddressTimeout time.Duration
}

type Provider struct {
	client *proxmox.ProxmoxClient
	opts   Options
	logger *log.Logger
}

func New(client *proxmox.ProxmoxClient, opts Options, logger *log.Logger) *Provider {
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = 5 * time.Minute
	}
	if opts.AddressTimeout <= 0 {
		opts.AddressTimeout = 2 * time.Minute
	}
	return &Provider{client: client, opts: opts, logger: logger}
}

// vnetID maps a node-scoped network onto the eight character vnet id PVE allows.
func vnetID(node, network string) string {
	return hash.ShortID("v", 8, node, network)
}

func wrap(op, node, resource string, err error) error {
	if err == nil {
		return nil
	}
	if proxmox.IsNotFound(err) {
		return cloud.Wrap(op, node, resource, fmt.Errorf("%w: %v", cloud.ErrNotFound, err))
	}
	return cloud.Wrap(op, node, resource, err)
}

func (p *Provider) CreateNetwork(ctx context.Context, node, name, cidr string) error {
	vnet := vnetID(node, name)
	if err := p.client.CreateVNet(ctx, vnet, p.opts.Zone, name); err != nil {
		return wrap("create-network", node, name, err)
	}
	return wrap("create-network", node, name, p.client.ApplySDN(ctx))
}

func (p *Provider) DeleteNetwork(ctx context.Context, node, name string) error {
	if err := p.client.DeleteVNet(ctx, vnetID(node, name)); err != nil {
		return wrap("delete-network", node, name, err)
	}
	return wrap("delete-network", node, name, p.client.ApplySDN(ctx))
}

func (p *Provider) CreateSubnet(ctx context.Context, node string, subnet cloud.SubnetSpec) error {
	if err := p.client.CreateVNetSubnet(ctx, vnetID(node, subnet.Network), subnet.CIDR, subnet.Gateway, false); err != nil {
		return wrap("create-subnet", node, subnet.Name, err)
	}
	return wrap("create-subnet", node, subnet.Name, p.client.ApplySDN(ctx))
}

func (p *Provider) DeleteSubnet(ctx context.Context, node string, subnet cloud.SubnetSpec) error {
	err := p.client.DeleteVNetSubnet(ctx, vnetID(node, subnet.Network), proxmox.SubnetID(p.opts.Zone, subnet.CIDR))
	if err != nil {
		return wrap("delete-subnet", node, subnet.Name, err)
	}
	return wrap("delete-subnet", node, subnet.Name, p.client.ApplySDN(ctx))
}

// CreateRouter is a no-op: SDN has no router object, routing is SNAT on the subnet.
func (p *Provider) CreateRouter(ctx context.Context, node, name, externalNetwork string) error {
	p.logger.WithContext(ctx).Debug("proxmox routers are implicit", zap.String("node", node), zap.String("router", name))
	return nil
}

func (p *Provider) AttachRouter(ctx context.Context, node, router string, subnet cloud.SubnetSpec) error {
	err := p.client.SetVNetSubnetSNAT(ctx, vnetID(node, subnet.Network), proxmox.SubnetID(p.opts.Zone, subnet.CIDR), true)
	if err != nil {
		return wrap("attach-router", node, router, err)
	}
	return wrap("attach-router", node, router, p.client.ApplySDN(ctx))
}

func (p *Provider) DetachRouter(ctx context.Context, node, router string, subnet cloud.SubnetSpec) error {
	err := p.client.SetVNetSubnetSNAT(ctx, vnetID(node, subnet.Network), proxmox.SubnetID(p.opts.Zone, subnet.CIDR), false)
	if err != nil {
		return wrap("detach-router", node, router, err)
	}
	return wrap("detach-router", node, router, p.client.ApplySDN(ctx))
}

func (p *Provider) DeleteRouter(ctx context.Context, node, name string) error {
	return nil
}

// CreateProfile checks that the node can host the profile at all. PVE has no flavor
// object; sizes are applied to each guest at creation.
func (p *Provider) CreateProfile(ctx context.Context, node string, profile cloud.ProfileSpec) error {
	status, err := p.client.GetNodeStatus(ctx, node)
	if err != nil {
		return wrap("create-profile", node, profile.Name, err)
	}
	if profile.VCPU > status.CPUInfo.CPUs || int64(profile.RAM)*1024*1024 > status.Memory.Total {
		return cloud.Wrap("create-profile", node, profile.Name,
			fmt.Errorf("node has %d cpus and %d MiB, profile needs %d and %d",
				status.CPUInfo.CPUs, status.Memory.Total/1024/1024, profile.VCPU, profile.RAM))
	}
	return nil
}

func (p *Provider) DeleteProfile(ctx context.Context, node, name string) error {
	return nil
}

// CreateInstance refuses a name already used by a guest on node: PVE itself would
// accept the clone and leave two guests sharing it.
func (p *Provider) CreateInstance(ctx context.Context, node string, req cloud.InstanceRequest) (*cloud.Instance, error) {
	existing, err := p.client.FindGuest(ctx, node, req.Name, false)
	if err != nil {
		return nil, wrap("create-instance", node, req.Name, err)
	}
	if existing != nil {
		return nil, cloud.Wrap("create-instance", node, req.Name, fmt.Errorf("guest %s already exists as vmid %d", req.Name, existing.VMID))
	}
	vmid, err := p.client.GetNextFreeVMID(ctx)
	if err != nil {
		return nil, wrap("create-instance", node, req.Name, err)
	}
	if req.Kind == model.RentalKindContainer {
		err = p.createContainer(ctx, node, vmid, req)
	} else {
		err = p.createServer(ctx, node, vmid, req)
	}
	if err != nil {
		return nil, wrap("create-instance", node, req.Name, err)
	}
	return &cloud.Instance{ID: strconv.FormatUint(uint64(vmid), 10), Name: req.Name, Node: node}, nil
}

func (p *Provider) createServer(ctx context.Context, node string, vmid uint32, req cloud.InstanceRequest) error {
	template, err := p.client.FindGuest(ctx, node, req.Image, true)
	if err != nil {
		return err
	}
	if template == nil {
		return fmt.Errorf("template %s not found on %s", req.Image, node)
	}
	upid, err := p.client.CloneVM(ctx, node, template.VMID, &proxmox.CloneVMRequest{
		NewID:   vmid,
		Name:    req.Name,
		Full:    p.opts.FullClone,
		Storage: p.opts.Storage,
	})
	if err != nil {
		return err
	}
	if err := p.client.WaitForTask(ctx, node, upid, p.opts.TaskTimeout); err != nil {
		return err
	}

	params := url.Values{}
	params.Set("net0", "virtio,bridge="+vnetID(node, req.Network))
	params.Set("tags", tags(req.Tags))
	if len(req.AuthorizedKeys) > 0 {
		params.Set("sshkeys", sshKeys(req.AuthorizedKeys))
	}
	if req.Profile != nil {
		params.Set("cores", strconv.Itoa(req.Profile.VCPU))
		params.Set("memory", strconv.Itoa(req.Profile.RAM))
	}
	if err := p.client.UpdateGuestConfig(ctx, node, "qemu", vmid, params); err != nil {
		return err
	}
	if req.Profile != nil && req.Profile.Disk > 0 {
		if err := p.client.ResizeDisk(ctx, node, vmid, "scsi0", fmt.Sprintf("%dG", req.Profile.Disk)); err != nil {
			return err
		}
	}
	upid, err = p.client.SetGuestStatus(ctx, node, "qemu", vmid, "start")
	if err != nil {
		return err
	}
	return p.client.WaitForTask(ctx, node, upid, p.opts.TaskTimeout)
}

func (p *Provider) createContainer(ctx context.Context, node string, vmid uint32, req cloud.InstanceRequest) error {
	params := url.Values{}
	params.Set("vmid", strconv.FormatUint(uint64(vmid), 10))
	params.Set("hostname", req.Name)
	params.Set("ostemplate", req.Image)
	params.Set("net0", fmt.Sprintf("name=eth0,bridge=%s,ip=dhcp", vnetID(node, req.Network)))
	params.Set("tags", tags(req.Tags))
	params.Set("start", "1")
	if p.opts.Storage != "" {
		params.Set("storage", p.opts.Storage)
	}
	if len(req.AuthorizedKeys) > 0 {
		params.Set("ssh-public-keys", strings.Join(req.AuthorizedKeys, "\n"))
	}
	if len(req.Env) > 0 || len(req.Command) > 0 {
		p.logger.WithContext(ctx).Warn("lxc containers ignore env and command", zap.String("container", req.Name))
	}
	upid, err := p.client.CreateContainer(ctx, node, params)
	if err != nil {
		return err
	}
	return p.client.WaitForTask(ctx, node, upid, p.opts.TaskTimeout)
}

// sshKeys encodes cloud-init keys for a qemu config. PVE wants the value itself
// percent-encoded, spaces as %20, on top of the form encoding.
func sshKeys(keys []string) string {
	return strings.ReplaceAll(url.QueryEscape(strings.Join(keys, "\n")), "+", "%20")
}

// tags renders key=value tags in the form PVE accepts: lowercase, ';' separated.
func tags(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, strings.ToLower(k+"-"+v))
	}
	return strings.Join(parts, ";")
}

// guest resolves an instance handle, the vmid CreateInstance returned.
func (p *Provider) guest(ctx context.Context, op, node, id string) (*proxmox.ClusterResource, error) {
	vmid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return nil, cloud.Wrap(op, node, id, fmt.Errorf("invalid vmid %q: %w", id, err))
	}
	guest, err := p.client.GetGuest(ctx, node, uint32(vmid))
	if err != nil {
		return nil, wrap(op, node, id, err)
	}
	if guest == nil {
		return nil, cloud.NotFound(op, node, id)
	}
	return guest, nil
}

func (p *Provider) DeleteInstance(ctx context.Context, node, id string) error {
	guest, err := p.guest(ctx, "delete-instance", node, id)
	if err != nil {
		return err
	}
	if guest.Status == "running" {
		upid, err := p.client.SetGuestStatus(ctx, node, guest.Type, guest.VMID, "stop")
		if err != nil {
			return wrap("delete-instance", node, id, err)
		}
		if err := p.client.WaitForTask(ctx, node, upid, p.opts.TaskTimeout); err != nil {
			return wrap("delete-instance", node, id, err)
		}
	}
	upid, err := p.client.DeleteGuest(ctx, node, guest.Type, guest.VMID)
	if err != nil {
		return wrap("delete-instance", node, id, err)
	}
	return wrap("delete-instance", node, id, p.client.WaitForTask(ctx, node, upid, p.opts.TaskTimeout))
}

// AllocateAddress waits for the guest to obtain an IPv4 address on its tenant NIC.
func (p *Provider) AllocateAddress(ctx context.Context, node string, instance *cloud.Instance) (string, error) {
	guest, err := p.guest(ctx, "allocate-address", node, instance.ID)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.AddressTimeout)
	defer cancel()
	ticker := time.NewTicker(p.client.PollInterval)
	defer ticker.Stop()
	for {
		addr, err := p.guestAddress(ctx, node, guest)
		if err == nil && addr != "" {
			return addr, nil
		}
		if err != nil {
			// the guest agent answers errors until it has started
			p.logger.WithContext(ctx).Debug("guest address not ready", zap.String("instance", instance.Name), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return "", cloud.Wrap("allocate-address", node, instance.Name, fmt.Errorf("no address: %w", ctx.Err()))
		case <-ticker.C:
		}
	}
}

func (p *Provider) guestAddress(ctx context.Context, node string, guest *proxmox.ClusterResource) (string, error) {
	if guest.Type == "lxc" {
		ifaces, err := p.client.GetContainerInterfaces(ctx, node, guest.VMID)
		if err != nil {
			return "", err
		}
		for _, iface := range ifaces {
			if iface.Name == "lo" || iface.Inet == "" {
				continue
			}
			if prefix, err := netip.ParsePrefix(iface.Inet); err == nil {
				return prefix.Addr().String(), nil
			}
		}
		return "", nil
	}
	ifaces, err := p.client.GetQemuAgentInterfaces(ctx, node, guest.VMID)
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Name == "lo" {
			continue
		}
		for _, ip := range iface.IPAddresses {
			if ip.Type == "ipv4" {
				return ip.Address, nil
			}
		}
	}
	return "", nil
}

// ReleaseAddress is a no-op: the DHCP lease disappears with the guest.
func (p *Provider) ReleaseAddress(ctx context.Context, node, address string) error {
	return nil
}

// ListImages names the templates on node: qemu templates for servers and lxc
// templates for containers.
func (p *Provider) ListImages(ctx context.Context, node string) ([]string, error) {
	resources, err := p.client.GetClusterResources(ctx, "vm")
	if err != nil {
		return nil, wrap("list-images", node, "", err)
	}
	var names []string
	for _, r := range resources {
		if r.Node == node && r.Template == 1 {
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}
