package cloud

import (
	"context"
	"time"
)

// WithTimeout bounds every call to p by d. A non-positive d returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{next: p, timeout: d}
}

type timeoutProvider struct {
	next    Provider
	timeout time.Duration
}

func (t *timeoutProvider) CreateNetwork(ctx context.Context, node, name, cidr string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.CreateNetwork(ctx, node, name, cidr)
}

func (t *timeoutProvider) DeleteNetwork(ctx context.Context, node, name string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DeleteNetwork(ctx, node, name)
}

func (t *timeoutProvider) CreateSubnet(ctx context.Context, node string, subnet SubnetSpec) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.CreateSubnet(ctx, node, subnet)
}

func (t *timeoutProvider) DeleteSubnet(ctx context.Context, node string, subnet SubnetSpec) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DeleteSubnet(ctx, node, subnet)
}

func (t *timeoutProvider) CreateRouter(ctx context.Context, node, name, externalNetwork string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.CreateRouter(ctx, node, name, externalNetwork)
}

func (t *timeoutProvider) AttachRouter(ctx context.Context, node, router string, subnet SubnetSpec) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.AttachRouter(ctx, node, router, subnet)
}

func (t *timeoutProvider) DetachRouter(ctx context.Context, node, router string, subnet SubnetSpec) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DetachRouter(ctx, node, router, subnet)
}

func (t *timeoutProvider) DeleteRouter(ctx context.Context, node, name string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DeleteRouter(ctx, node, name)
}

func (t *timeoutProvider) CreateProfile(ctx context.Context, node string, profile ProfileSpec) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.CreateProfile(ctx, node, profile)
}

func (t *timeoutProvider) DeleteProfile(ctx context.Context, node, name string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DeleteProfile(ctx, node, name)
}

func (t *timeoutProvider) CreateInstance(ctx context.Context, node string, req InstanceRequest) (*Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.CreateInstance(ctx, node, req)
}

func (t *timeoutProvider) DeleteInstance(ctx context.Context, node, id string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DeleteInstance(ctx, node, id)
}

func (t *timeoutProvider) AllocateAddress(ctx context.Context, node string, instance *Instance) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.AllocateAddress(ctx, node, instance)
}

func (t *timeoutProvider) ReleaseAddress(ctx context.Context, node, address string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.ReleaseAddress(ctx, node, address)
}

func (t *timeoutProvider) ListImages(ctx context.Context, node string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.ListImages(ctx, node)
}
