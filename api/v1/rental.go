package v1

import "time"

// DateLayout is the wire format of rental start and end dates.
const DateLayout = "2006-01-02"

// CreateServerRequest rents a virtual machine.
type CreateServerRequest struct {
	UserName    string `json:"user_name" binding:"required" example:"alice"`
	ServerName  string `json:"server_name" binding:"required" example:"alice-vm"`
	StartDate   string `json:"start_date" binding:"required" example:"2024-01-01"`
	EndDate     string `json:"end_date" binding:"required" example:"2024-02-01"`
	NodeName    string `json:"node_name" binding:"required" example:"pve01"`
	ImageName   string `json:"image_name" binding:"required" example:"ubuntu-22.04"`
	FlavorName  string `json:"flavor_name" binding:"required" example:"m1.small"`
	VCPUs       int    `json:"vcpus,omitempty" example:"2"`            // needed when the flavor does not exist yet
	RAM         int    `json:"ram,omitempty" example:"2048"`           // MiB
	Disk        int    `json:"disk,omitempty" example:"20"`            // GiB
	NetworkName string `json:"network_name,omitempty" example:"alice"` // default: internal network
	SubnetCIDR  string `json:"subnet_cidr,omitempty" example:"10.10.0.0/24"`
}

// CreateContainerRequest rents a container.
type CreateContainerRequest struct {
	UserName      string   `json:"user_name" binding:"required" example:"alice"`
	ContainerName string   `json:"container_name" binding:"required" example:"alice-ct"`
	StartDate     string   `json:"start_date" binding:"required" example:"2024-01-01"`
	EndDate       string   `json:"end_date" binding:"required" example:"2024-02-01"`
	NodeName      string   `json:"node_name" binding:"required" example:"pve01"`
	ImageName     string   `json:"image_name" binding:"required" example:"local:vztmpl/debian-12.tar.zst"`
	Password      string   `json:"password" binding:"required" example:"s3cret"`
	NetworkName   string   `json:"network_name,omitempty" example:"alice"` // default: external network
	SubnetCIDR    string   `json:"subnet_cidr,omitempty" example:"10.20.0.0/24"`
	Env           []string `json:"env,omitempty" example:"FOO=bar"`
	Cmd           []string `json:"cmd,omitempty"`
}

type ExtendRentalRequest struct {
	EndDate string `json:"end_date" binding:"required" example:"2024-03-01"`
}

type ReturnContainerRequest struct {
	Password string `json:"password" binding:"required"`
}

type ListRentalRequest struct {
	UserName string `form:"user_name" example:"alice"`
}

type RentalItem struct {
	Name           string    `json:"name"`
	Kind           string    `json:"kind"`
	UserName       string    `json:"user_name"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	NodeName       string    `json:"node_name"`
	NetworkName    string    `json:"network_name"`
	FlavorName     string    `json:"flavor_name,omitempty"`
	ImageName      string    `json:"image_name"`
	Address        string    `json:"address"`
	InstanceID     string    `json:"instance_id"`
	KeyFingerprint string    `json:"key_fingerprint,omitempty"`
	CreateTime     time.Time `json:"create_time"`
	// KeyPairName and PrivateKey are only sent when a server is created.
	KeyPairName string `json:"key_pair_name,omitempty" example:"alice-vm_keypair.pem"`
	PrivateKey  string `json:"private_key,omitempty"`
}

type ListRentalResponseData struct {
	Total int64        `json:"total"`
	List  []RentalItem `json:"list"`
}

type RentalResponse struct {
	Response
	Data RentalItem
}

type ListRentalResponse struct {
	Response
	Data ListRentalResponseData
}
