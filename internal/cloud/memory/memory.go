// Package memory is an in-process cloud used for local development and tests.
// It keeps per-node state, counts calls and can be told to fail operations.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"cloudrent/internal/cloud"
)

// Operation names accepted by Fail and Calls.
const (
	OpCreateNetwork   = "create-network"
	OpDeleteNetwork   = "delete-network"
	OpCreateSubnet    = "create-subnet"
	OpDeleteSubnet    = "delete-subnet"
	OpCreateRouter    = "create-router"
	OpAttachRouter    = "attach-router"
	OpDetachRouter    = "detach-router"
	OpDeleteRouter    = "delete-router"
	OpCreateProfile   = "create-profile"
	OpDeleteProfile   = "delete-profile"
	OpCreateInstance  = "create-instance"
	OpDeleteInstance  = "delete-instance"
	OpAllocateAddress = "allocate-address"
	OpReleaseAddress  = "release-address"
	OpListImages      = "list-images"
)

type key struct {
	node string
	name string
}

type Provider struct {
	mu          sync.Mutex
	networks    map[key]string
	subnets     map[key]cloud.SubnetSpec
	routers     map[key]string
	attachments map[key]string // router -> subnet
	profiles    map[key]cloud.ProfileSpec
	instances   map[string]*cloud.Instance // by ID
	addresses   map[string]string          // address -> instance ID
	requests    map[string]cloud.InstanceRequest
	images      []string
	nextAddress int
	nextID      int
	calls       map[string]int
	faults      map[string]error
	sharedNames bool
}

func New() *Provider {
	return &Provider{
		networks:    map[key]string{},
		subnets:     map[key]cloud.SubnetSpec{},
		routers:     map[key]string{},
		attachments: map[key]string{},
		profiles:    map[key]cloud.ProfileSpec{},
		instances:   map[string]*cloud.Instance{},
		requests:    map[string]cloud.InstanceRequest{},
		addresses:   map[string]string{},
		calls:       map[string]int{},
		faults:      map[string]error{},
	}
}

// Fail makes every later call of op return err until Heal(op).
func (p *Provider) Fail(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.faults[op] = err
}

func (p *Provider) Heal(op string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.faults, op)
}

// Calls is the number of times op was invoked, failed calls included.
func (p *Provider) Calls(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

func (p *Provider) HasNetwork(node, name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.networks[key{node, name}]
	return ok
}

func (p *Provider) HasRouter(node, name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.routers[key{node, name}]
	return ok
}

func (p *Provider) HasProfile(node, name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.profiles[key{node, name}]
	return ok
}

// SetImages replaces the image catalog ListImages serves on every node.
func (p *Provider) SetImages(names ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.images = append([]string(nil), names...)
	sort.Strings(p.images)
}

// Request is the request the live instance id was created from.
func (p *Provider) Request(id string) (cloud.InstanceRequest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	req, ok := p.requests[id]
	return req, ok
}

// AllowDuplicateNames lets CreateInstance boot a second instance under a name
// already in use, as Proxmox VE does.
func (p *Provider) AllowDuplicateNames() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sharedNames = true
}

func (p *Provider) HasInstance(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.byName(name) != nil
}

// HasInstanceID reports whether the instance with handle id is still alive.
func (p *Provider) HasInstanceID(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.instances[id]
	return ok
}

// Instances is the number of live instances across all nodes.
func (p *Provider) Instances() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.instances)
}

// DropInstance removes every instance called name behind the service's back, as
// an operator would.
func (p *Provider) DropInstance(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, inst := range p.instances {
		if inst.Name == name {
			delete(p.instances, id)
		}
	}
}

// byName is the first instance called name. Callers hold p.mu.
func (p *Provider) byName(name string) *cloud.Instance {
	for _, inst := range p.instances {
		if inst.Name == name {
			return inst
		}
	}
	return nil
}

// enter records the call and returns the injected fault, if any. Callers hold p.mu.
func (p *Provider) enter(op, node, resource string) error {
	p.calls[op]++
	if err, ok := p.faults[op]; ok {
		return cloud.Wrap(op, node, resource, err)
	}
	return nil
}

func exists(op, node, resource string) error {
	return cloud.Wrap(op, node, resource, fmt.Errorf("%s already exists", resource))
}

func (p *Provider) CreateNetwork(ctx context.Context, node, name, cidr string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpCreateNetwork, node, name); err != nil {
		return err
	}
	if _, ok := p.networks[key{node, name}]; ok {
		return exists(OpCreateNetwork, node, name)
	}
	p.networks[key{node, name}] = cidr
	return nil
}

func (p *Provider) DeleteNetwork(ctx context.Context, node, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpDeleteNetwork, node, name); err != nil {
		return err
	}
	if _, ok := p.networks[key{node, name}]; !ok {
		return cloud.NotFound(OpDeleteNetwork, node, name)
	}
	delete(p.networks, key{node, name})
	return nil
}

func (p *Provider) CreateSubnet(ctx context.Context, node string, subnet cloud.SubnetSpec) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpCreateSubnet, node, subnet.Name); err != nil {
		return err
	}
	if _, ok := p.networks[key{node, subnet.Network}]; !ok {
		return cloud.NotFound(OpCreateSubnet, node, subnet.Network)
	}
	if _, ok := p.subnets[key{node, subnet.Name}]; ok {
		return exists(OpCreateSubnet, node, subnet.Name)
	}
	p.subnets[key{node, subnet.Name}] = subnet
	return nil
}

func (p *Provider) DeleteSubnet(ctx context.Context, node string, subnet cloud.SubnetSpec) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpDeleteSubnet, node, subnet.Name); err != nil {
		return err
	}
	if _, ok := p.subnets[key{node, subnet.Name}]; !ok {
		return cloud.NotFound(OpDeleteSubnet, node, subnet.Name)
	}
	delete(p.subnets, key{node, subnet.Name})
	return nil
}

func (p *Provider) CreateRouter(ctx context.Context, node, name, externalNetwork string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpCreateRouter, node, name); err != nil {
		return err
	}
	if _, ok := p.routers[key{node, name}]; ok {
		return exists(OpCreateRouter, node, name)
	}
	p.routers[key{node, name}] = externalNetwork
	return nil
}

func (p *Provider) AttachRouter(ctx context.Context, node, router string, subnet cloud.SubnetSpec) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpAttachRouter, node, router); err != nil {
		return err
	}
	if _, ok := p.routers[key{node, router}]; !ok {
		return cloud.NotFound(OpAttachRouter, node, router)
	}
	if _, ok := p.subnets[key{node, subnet.Name}]; !ok {
		return cloud.NotFound(OpAttachRouter, node, subnet.Name)
	}
	p.attachments[key{node, router}] = subnet.Name
	return nil
}

func (p *Provider) DetachRouter(ctx context.Context, node, router string, subnet cloud.SubnetSpec) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpDetachRouter, node, router); err != nil {
		return err
	}
	if p.attachments[key{node, router}] != subnet.Name {
		return cloud.NotFound(OpDetachRouter, node, router)
	}
	delete(p.attachments, key{node, router})
	return nil
}

func (p *Provider) DeleteRouter(ctx context.Context, node, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpDeleteRouter, node, name); err != nil {
		return err
	}
	if _, ok := p.routers[key{node, name}]; !ok {
		return cloud.NotFound(OpDeleteRouter, node, name)
	}
	delete(p.routers, key{node, name})
	return nil
}

func (p *Provider) CreateProfile(ctx context.Context, node string, profile cloud.ProfileSpec) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpCreateProfile, node, profile.Name); err != nil {
		return err
	}
	if _, ok := p.profiles[key{node, profile.Name}]; ok {
		return exists(OpCreateProfile, node, profile.Name)
	}
	p.profiles[key{node, profile.Name}] = profile
	return nil
}

func (p *Provider) DeleteProfile(ctx context.Context, node, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpDeleteProfile, node, name); err != nil {
		return err
	}
	if _, ok := p.profiles[key{node, name}]; !ok {
		return cloud.NotFound(OpDeleteProfile, node, name)
	}
	delete(p.profiles, key{node, name})
	return nil
}

func (p *Provider) CreateInstance(ctx context.Context, node string, req cloud.InstanceRequest) (*cloud.Instance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpCreateInstance, node, req.Name); err != nil {
		return nil, err
	}
	if !p.sharedNames && p.byName(req.Name) != nil {
		return nil, exists(OpCreateInstance, node, req.Name)
	}
	p.nextID++
	inst := &cloud.Instance{
		ID:   fmt.Sprintf("mem-%d", p.nextID),
		Name: req.Name,
		Node: node,
	}
	p.instances[inst.ID] = inst
	p.requests[inst.ID] = req
	return &cloud.Instance{ID: inst.ID, Name: inst.Name, Node: node}, nil
}

func (p *Provider) DeleteInstance(ctx context.Context, node, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpDeleteInstance, node, id); err != nil {
		return err
	}
	inst, ok := p.instances[id]
	if !ok || inst.Node != node {
		return cloud.NotFound(OpDeleteInstance, node, id)
	}
	delete(p.instances, id)
	delete(p.requests, id)
	return nil
}

func (p *Provider) AllocateAddress(ctx context.Context, node string, instance *cloud.Instance) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpAllocateAddress, node, instance.Name); err != nil {
		return "", err
	}
	if _, ok := p.instances[instance.ID]; !ok {
		return "", cloud.NotFound(OpAllocateAddress, node, instance.Name)
	}
	p.nextAddress++
	addr := fmt.Sprintf("203.0.%d.%d", 113+p.nextAddress/250, p.nextAddress%250+1)
	p.addresses[addr] = instance.ID
	return addr, nil
}

func (p *Provider) ReleaseAddress(ctx context.Context, node, address string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpReleaseAddress, node, address); err != nil {
		return err
	}
	if _, ok := p.addresses[address]; !ok {
		return cloud.NotFound(OpReleaseAddress, node, address)
	}
	delete(p.addresses, address)
	return nil
}

// Addresses is the number of allocated addresses.
func (p *Provider) Addresses() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.addresses)
}

func (p *Provider) ListImages(ctx context.Context, node string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enter(OpListImages, node, ""); err != nil {
		return nil, err
	}
	return append([]string{}, p.images...), nil
}
