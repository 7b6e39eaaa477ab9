package proxmox

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type ProxmoxClient struct {
	baseUrl    *url.URL
	httpClient *http.Client
	Token      string // PVEAPIToken=userId=userToken
	// PollInterval is the task status polling period used by WaitForTask.
	PollInterval time.Duration
}

type Option func(c *ProxmoxClient)

// WithInsecureTLS skips certificate verification, for clusters on self-signed certs.
func WithInsecureTLS() Option {
	return func(c *ProxmoxClient) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *ProxmoxClient) {
		c.httpClient = hc
	}
}

func NewProxmoxClient(apiURL string, userId, userToken string, opts ...Option) (*ProxmoxClient, error) {
	baseUrl, err := url.Parse(apiURL)
	if err != nil {
		return nil, err
	}
	c := &ProxmoxClient{
		baseUrl: baseUrl,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Token:        fmt.Sprintf("PVEAPIToken=%s=%s", userId, userToken),
		PollInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *ProxmoxClient) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("proxmox API error (status %d): %s", e.Status, e.Message)
}

// IsNotFound reports whether err says the addressed object does not exist.
// PVE answers 404 for unknown paths and 500 with a "does not exist" message for
// unknown guests, vnets and subnets.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Status == http.StatusNotFound {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found")
}

func (c *ProxmoxClient) Request(ctx context.Context, req *http.Request, result interface{}) error {
	req.Header.Set("Authorization", c.Token)

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		var errResp struct {
			Message string                 `json:"message"`
			Errors  map[string]interface{} `json:"errors,omitempty"`
		}
		msg := strings.TrimSpace(resp.Status)
		if json.Unmarshal(body, &errResp) == nil {
			switch {
			case len(errResp.Errors) > 0:
				msg = fmt.Sprintf("%v", errResp.Errors)
			case errResp.Message != "":
				msg = errResp.Message
			}
		} else if len(body) > 0 {
			msg = string(body)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if result != nil {
		var apiResp struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
			return err
		}
		if len(apiResp.Data) > 0 && string(apiResp.Data) != "null" {
			return json.Unmarshal(apiResp.Data, result)
		}
	}
	return nil
}

func (c *ProxmoxClient) endpoint(path string, params url.Values) string {
	endpoint := c.baseUrl.JoinPath("/api2/json", path).String()
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	return endpoint
}

func (c *ProxmoxClient) Get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, nil), nil)
	if err != nil {
		return err
	}
	return c.Request(ctx, req, result)
}

// PostForm sends an application/x-www-form-urlencoded POST, the encoding PVE expects.
func (c *ProxmoxClient) PostForm(ctx context.Context, path string, form url.Values, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Request(ctx, req, result)
}

func (c *ProxmoxClient) PutForm(ctx context.Context, path string, form url.Values, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Request(ctx, req, result)
}

// Delete issues a DELETE with params in the query string. result receives the
// task UPID for asynchronous deletes.
func (c *ProxmoxClient) Delete(ctx context.Context, path string, params url.Values, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint(path, params), nil)
	if err != nil {
		return err
	}
	return c.Request(ctx, req, result)
}

// ClusterResource is one entry of /cluster/resources.
type ClusterResource struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // qemu, lxc, node, storage, sdn
	Node     string `json:"node"`
	Name     string `json:"name"`
	VMID     uint32 `json:"vmid"`
	Status   string `json:"status"`
	Template int    `json:"template"`
}

// GetClusterResources lists cluster resources, optionally filtered by type ("vm", "node", ...).
func (c *ProxmoxClient) GetClusterResources(ctx context.Context, resourceType string) ([]ClusterResource, error) {
	path := "/cluster/resources"
	if resourceType != "" {
		path += "?type=" + url.QueryEscape(resourceType)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl.JoinPath("/api2/json").String()+path, nil)
	if err != nil {
		return nil, err
	}
	var resources []ClusterResource
	if err := c.Request(ctx, req, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// FindGuest returns the qemu or lxc guest called name on node, or nil.
func (c *ProxmoxClient) FindGuest(ctx context.Context, node, name string, template bool) (*ClusterResource, error) {
	resources, err := c.GetClusterResources(ctx, "vm")
	if err != nil {
		return nil, err
	}
	for i := range resources {
		r := resources[i]
		if r.Node == node && r.Name == name && (r.Template == 1) == template {
			return &r, nil
		}
	}
	return nil, nil
}

// GetGuest returns the qemu or lxc guest with vmid on node, or nil.
func (c *ProxmoxClient) GetGuest(ctx context.Context, node string, vmid uint32) (*ClusterResource, error) {
	resources, err := c.GetClusterResources(ctx, "vm")
	if err != nil {
		return nil, err
	}
	for i := range resources {
		r := resources[i]
		if r.Node == node && r.VMID == vmid && r.Template != 1 {
			return &r, nil
		}
	}
	return nil, nil
}

// GetNextFreeVMID asks the cluster for an unused vmid. PVE returns it as a string.
func (c *ProxmoxClient) GetNextFreeVMID(ctx context.Context) (uint32, error) {
	var result interface{}
	if err := c.Get(ctx, "/cluster/nextid", &result); err != nil {
		return 0, fmt.Errorf("failed to get next free vmid: %w", err)
	}
	switch v := result.(type) {
	case float64:
		return uint32(v), nil
	case string:
		vmid, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("failed to parse vmid string '%s': %w", v, err)
		}
		return uint32(vmid), nil
	default:
		return 0, fmt.Errorf("unexpected vmid type: %T, value: %v", result, result)
	}
}

type CloneVMRequest struct {
	NewID   uint32
	Name    string
	Full    bool
	Storage string
}

// CloneVM clones a template. PVE takes clone parameters as form fields and returns a UPID.
func (c *ProxmoxClient) CloneVM(ctx context.Context, nodeName string, sourceVMID uint32, req *CloneVMRequest) (string, error) {
	params := url.Values{}
	params.Set("newid", strconv.FormatUint(uint64(req.NewID), 10))
	if req.Name != "" {
		params.Set("name", req.Name)
	}
	if req.Full {
		params.Set("full", "1")
	} else {
		params.Set("full", "0")
	}
	if req.Storage != "" {
		params.Set("storage", req.Storage)
	}

	var upid string
	path := fmt.Sprintf("/nodes/%s/qemu/%d/clone", nodeName, sourceVMID)
	if err := c.PostForm(ctx, path, params, &upid); err != nil {
		return "", err
	}
	return upid, nil
}

// UpdateGuestConfig sets configuration keys of a qemu or lxc guest.
func (c *ProxmoxClient) UpdateGuestConfig(ctx context.Context, nodeName, guestType string, vmID uint32, params url.Values) error {
	path := fmt.Sprintf("/nodes/%s/%s/%d/config", nodeName, guestType, vmID)
	return c.PutForm(ctx, path, params, nil)
}

// ResizeDisk grows disk to size, e.g. "20G".
func (c *ProxmoxClient) ResizeDisk(ctx context.Context, nodeName string, vmID uint32, disk, size string) error {
	params := url.Values{}
	params.Set("disk", disk)
	params.Set("size", size)
	path := fmt.Sprintf("/nodes/%s/qemu/%d/resize", nodeName, vmID)
	return c.PutForm(ctx, path, params, nil)
}

// CreateContainer creates an LXC container and returns the task UPID.
func (c *ProxmoxClient) CreateContainer(ctx context.Context, nodeName string, params url.Values) (string, error) {
	var upid string
	if err := c.PostForm(ctx, fmt.Sprintf("/nodes/%s/lxc", nodeName), params, &upid); err != nil {
		return "", err
	}
	return upid, nil
}

// SetGuestStatus posts a status command (start, stop, shutdown) and returns the UPID.
func (c *ProxmoxClient) SetGuestStatus(ctx context.Context, nodeName, guestType string, vmID uint32, command string) (string, error) {
	params := url.Values{}
	if command == "stop" {
		params.Set("timeout", "30")
	}
	var upid string
	path := fmt.Sprintf("/nodes/%s/%s/%d/status/%s", nodeName, guestType, vmID, command)
	if err := c.PostForm(ctx, path, params, &upid); err != nil {
		return "", err
	}
	return upid, nil
}

// DeleteGuest destroys a stopped guest with its disks and job references.
func (c *ProxmoxClient) DeleteGuest(ctx context.Context, nodeName, guestType string, vmID uint32) (string, error) {
	params := url.Values{}
	params.Set("purge", "1")
	params.Set("destroy-unreferenced-disks", "1")
	var upid string
	path := fmt.Sprintf("/nodes/%s/%s/%d", nodeName, guestType, vmID)
	if err := c.Delete(ctx, path, params, &upid); err != nil {
		return "", err
	}
	return upid, nil
}

type TaskStatus struct {
	Status     string `json:"status"` // running, stopped
	ExitStatus string `json:"exitstatus"`
}

func (c *ProxmoxClient) GetTaskStatus(ctx context.Context, nodeName, upid string) (*TaskStatus, error) {
	var status TaskStatus
	if err := c.Get(ctx, fmt.Sprintf("/nodes/%s/tasks/%s/status", nodeName, upid), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// WaitForTask polls the task until it stops, and fails unless it exited OK.
// An empty upid is a synchronous call that already finished.
func (c *ProxmoxClient) WaitForTask(ctx context.Context, nodeName, upid string, timeout time.Duration) error {
	if upid == "" {
		return nil
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()
	for {
		status, err := c.GetTaskStatus(ctx, nodeName, upid)
		if err != nil {
			return err
		}
		if status.Status == "stopped" {
			if status.ExitStatus != "OK" {
				return fmt.Errorf("task %s failed: %s", upid, status.ExitStatus)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("task %s: %w", upid, ctx.Err())
		case <-ticker.C:
		}
	}
}

type NodeStatus struct {
	CPUInfo struct {
		CPUs int `json:"cpus"`
	} `json:"cpuinfo"`
	Memory struct {
		Total int64 `json:"total"`
		Free  int64 `json:"free"`
	} `json:"memory"`
}

func (c *ProxmoxClient) GetNodeStatus(ctx context.Context, nodeName string) (*NodeStatus, error) {
	var status NodeStatus
	if err := c.Get(ctx, fmt.Sprintf("/nodes/%s/status", nodeName), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

type GuestInterface struct {
	Name        string `json:"name"`
	IPAddresses []struct {
		Type    string `json:"ip-address-type"`
		Address string `json:"ip-address"`
	} `json:"ip-addresses"`
}

// GetQemuAgentInterfaces reads the guest agent's view of the VM's NICs.
func (c *ProxmoxClient) GetQemuAgentInterfaces(ctx context.Context, nodeName string, vmID uint32) ([]GuestInterface, error) {
	var result struct {
		Result []GuestInterface `json:"result"`
	}
	path := fmt.Sprintf("/nodes/%s/qemu/%d/agent/network-get-interfaces", nodeName, vmID)
	if err := c.Get(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.Result, nil
}

type ContainerInterface struct {
	Name string `json:"name"`
	Inet string `json:"inet"` // 10.0.0.5/24
}

func (c *ProxmoxClient) GetContainerInterfaces(ctx context.Context, nodeName string, vmID uint32) ([]ContainerInterface, error) {
	var ifaces []ContainerInterface
	if err := c.Get(ctx, fmt.Sprintf("/nodes/%s/lxc/%d/interfaces", nodeName, vmID), &ifaces); err != nil {
		return nil, err
	}
	return ifaces, nil
}
