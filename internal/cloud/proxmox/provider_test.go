package proxmox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cloudrent/internal/cloud"
	"cloudrent/pkg/log"
	"cloudrent/pkg/proxmox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePVE struct {
	mu       sync.Mutex
	requests []string
	handler  func(w http.ResponseWriter, r *http.Request) bool
}

func (f *fakePVE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api2/json"))
	f.mu.Unlock()
	if f.handler != nil && f.handler(w, r) {
		return
	}
	_, _ = w.Write([]byte(`{"data":null}`))
}

func newTestProvider(t *testing.T, f *fakePVE) *Provider {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	client, err := proxmox.NewProxmoxClient(srv.URL, "root@pam!ci", "token", proxmox.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	client.PollInterval = time.Millisecond
	return New(client, Options{Zone: "tenants", TaskTimeout: time.Second, AddressTimeout: time.Second}, log.NewNop())
}

func TestCreateNetworkAppliesSDN(t *testing.T) {
	f := &fakePVE{}
	p := newTestProvider(t, f)

	require.NoError(t, p.CreateNetwork(context.Background(), "pve01", "alice", "10.0.0.0/24"))
	assert.Equal(t, []string{"POST /cluster/sdn/vnets", "PUT /cluster/sdn"}, f.requests)
}

func TestDeleteInstanceMissingGuest(t *testing.T) {
	f := &fakePVE{handler: func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/api2/json/cluster/resources" {
			_, _ = w.Write([]byte(`{"data":[{"type":"qemu","node":"pve02","name":"vm1","vmid":101}]}`))
			return true
		}
		return false
	}}
	p := newTestProvider(t, f)

	err := p.DeleteInstance(context.Background(), "pve01", "101")
	assert.ErrorIs(t, err, cloud.ErrNotFound)
}

func TestDeleteInstanceByVMIDSparesNamesake(t *testing.T) {
	f := &fakePVE{handler: func(w http.ResponseWriter, r *http.Request) bool {
		switch {
		case r.URL.Path == "/api2/json/cluster/resources":
			_, _ = w.Write([]byte(`{"data":[` +
				`{"type":"qemu","node":"pve01","name":"db1","vmid":101,"status":"stopped"},` +
				`{"type":"qemu","node":"pve01","name":"db1","vmid":102,"status":"stopped"}]}`))
		case r.Method == http.MethodDelete:
			_, _ = w.Write([]byte(`{"data":"UPID:pve01:1:2:3:qmdestroy:102:root@pam:"}`))
		case strings.HasSuffix(r.URL.Path, "/status"):
			_, _ = w.Write([]byte(`{"data":{"status":"stopped","exitstatus":"OK"}}`))
		default:
			return false
		}
		return true
	}}
	p := newTestProvider(t, f)

	require.NoError(t, p.DeleteInstance(context.Background(), "pve01", "102"))
	assert.Contains(t, f.requests, "DELETE /nodes/pve01/qemu/102")
	assert.NotContains(t, f.requests, "DELETE /nodes/pve01/qemu/101")
}

func TestDeleteInstanceRejectsMalformedHandle(t *testing.T) {
	p := newTestProvider(t, &fakePVE{})

	err := p.DeleteInstance(context.Background(), "pve01", "db1")
	assert.ErrorIs(t, err, cloud.ErrProvider)
	assert.NotErrorIs(t, err, cloud.ErrNotFound)
}

func TestCreateInstanceRejectsTakenName(t *testing.T) {
	f := &fakePVE{handler: func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/api2/json/cluster/resources" {
			_, _ = w.Write([]byte(`{"data":[{"type":"qemu","node":"pve01","name":"db1","vmid":101,"status":"running"}]}`))
			return true
		}
		return false
	}}
	p := newTestProvider(t, f)

	_, err := p.CreateInstance(context.Background(), "pve01", cloud.InstanceRequest{Name: "db1", Kind: "server", Image: "ubuntu"})
	assert.ErrorIs(t, err, cloud.ErrProvider)
	assert.Equal(t, []string{"GET /cluster/resources"}, f.requests)
}

func TestDeleteVNetNotFoundIsTolerable(t *testing.T) {
	f := &fakePVE{handler: func(w http.ResponseWriter, r *http.Request) bool {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"data":null,"message":"vnet does not exist"}`))
		return true
	}}
	p := newTestProvider(t, f)

	err := p.DeleteNetwork(context.Background(), "pve01", "alice")
	assert.ErrorIs(t, err, cloud.ErrNotFound)
	assert.NoError(t, cloud.IgnoreNotFound(err))
}

func TestCreateProfileChecksCapacity(t *testing.T) {
	f := &fakePVE{handler: func(w http.ResponseWriter, r *http.Request) bool {
		_, _ = w.Write([]byte(`{"data":{"cpuinfo":{"cpus":4},"memory":{"total":8589934592}}}`))
		return true
	}}
	p := newTestProvider(t, f)
	ctx := context.Background()

	assert.NoError(t, p.CreateProfile(ctx, "pve01", cloud.ProfileSpec{Name: "m1.small", VCPU: 2, RAM: 2048, Disk: 20}))
	err := p.CreateProfile(ctx, "pve01", cloud.ProfileSpec{Name: "m1.huge", VCPU: 16, RAM: 2048, Disk: 20})
	assert.ErrorIs(t, err, cloud.ErrProvider)
}

func TestAllocateAddressFromContainer(t *testing.T) {
	f := &fakePVE{handler: func(w http.ResponseWriter, r *http.Request) bool {
		switch r.URL.Path {
		case "/api2/json/cluster/resources":
			_, _ = w.Write([]byte(`{"data":[{"type":"lxc","node":"pve01","name":"ct1","vmid":120,"status":"running"}]}`))
		case "/api2/json/nodes/pve01/lxc/120/interfaces":
			_, _ = w.Write([]byte(`{"data":[{"name":"lo","inet":"127.0.0.1/8"},{"name":"eth0","inet":"10.0.0.7/24"}]}`))
		default:
			return false
		}
		return true
	}}
	p := newTestProvider(t, f)

	addr, err := p.AllocateAddress(context.Background(), "pve01", &cloud.Instance{ID: "120", Name: "ct1", Node: "pve01"})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", addr)
}

func TestListImagesOnlyTemplatesOfNode(t *testing.T) {
	f := &fakePVE{handler: func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/api2/json/cluster/resources" {
			_, _ = w.Write([]byte(`{"data":[` +
				`{"type":"qemu","node":"pve01","name":"ubuntu-22.04","vmid":9000,"template":1},` +
				`{"type":"lxc","node":"pve01","name":"debian-12","vmid":9001,"template":1},` +
				`{"type":"qemu","node":"pve01","name":"db1","vmid":101},` +
				`{"type":"qemu","node":"pve02","name":"rocky-9","vmid":9002,"template":1}]}`))
			return true
		}
		return false
	}}
	p := newTestProvider(t, f)

	images, err := p.ListImages(context.Background(), "pve01")
	require.NoError(t, err)
	assert.Equal(t, []string{"debian-12", "ubuntu-22.04"}, images)
}

func TestSSHKeysEncoding(t *testing.T) {
	assert.Equal(t, "ssh-ed25519%20AAAA%2B%2F%3D%20db1%0Assh-rsa%20BBBB",
		sshKeys([]string{"ssh-ed25519 AAAA+/= db1", "ssh-rsa BBBB"}))
}
