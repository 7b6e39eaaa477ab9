// Package cloud defines the operations the rental service needs from an
// infrastructure backend. Every call is scoped to a node: a hypervisor host,
// region or location, depending on the driver.
package cloud

import "context"

// SubnetSpec carries everything a driver may need to address a subnet.
type SubnetSpec struct {
	Network string
	Name    string
	CIDR    string
	Gateway string
}

// ProfileSpec is a compute profile.
type ProfileSpec struct {
	Name string
	VCPU int
	RAM  int // MiB
	Disk int // GiB
}

// InstanceRequest describes a server or container to boot.
type InstanceRequest struct {
	Name    string
	Kind    string // model.RentalKindServer or model.RentalKindContainer
	Image   string
	Network string
	Profile *ProfileSpec // nil for containers
	Env     map[string]string
	Command []string
	Tags    map[string]string
	// AuthorizedKeys are authorized_keys lines installed for the default user.
	AuthorizedKeys []string
}

type Instance struct {
	ID        string
	Name      string
	Node      string
	Addresses []string
}

//go:generate mockgen -source=provider.go -destination=mock/provider.go -package=mock_cloud

// Provider is the cloud backend. Deletes return an error matching ErrNotFound when
// the resource does not exist; callers tearing down treat that as success.
// Instances are addressed by the Instance.ID CreateInstance returned, never by
// name: some backends let two guests share a name.
type Provider interface {
	CreateNetwork(ctx context.Context, node, name, cidr string) error
	DeleteNetwork(ctx context.Context, node, name string) error
	CreateSubnet(ctx context.Context, node string, subnet SubnetSpec) error
	DeleteSubnet(ctx context.Context, node string, subnet SubnetSpec) error
	CreateRouter(ctx context.Context, node, name, externalNetwork string) error
	AttachRouter(ctx context.Context, node, router string, subnet SubnetSpec) error
	DetachRouter(ctx context.Context, node, router string, subnet SubnetSpec) error
	DeleteRouter(ctx context.Context, node, name string) error
	CreateProfile(ctx context.Context, node string, profile ProfileSpec) error
	DeleteProfile(ctx context.Context, node, name string) error
	CreateInstance(ctx context.Context, node string, req InstanceRequest) (*Instance, error)
	DeleteInstance(ctx context.Context, node, id string) error
	AllocateAddress(ctx context.Context, node string, instance *Instance) (string, error)
	ReleaseAddress(ctx context.Context, node, address string) error
	// ListImages names the images instances on node can boot from, sorted.
	ListImages(ctx context.Context, node string) ([]string, error)
}
