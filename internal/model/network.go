package model

import (
	"fmt"
	"net/netip"
	"time"

	"cloudrent/pkg/hash"

	"gorm.io/gorm"
)

// Network is an isolated tenant network: one subnet routed to the external network.
type Network struct {
	Id         int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `json:"name" gorm:"column:name;size:64;not null;uniqueIndex:uk_network_name"`
	CIDR       string    `json:"cidr" gorm:"column:cidr;size:64"`
	IsDefault  int8      `json:"is_default" gorm:"column:is_default;default:0"`
	SpecHash   string    `json:"spec_hash" gorm:"column:spec_hash;size:64"`
	CreateTime time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
}

func (Network) TableName() string {
	return "network"
}

func (n Network) ResourceName() string { return n.Name }
func (n Network) Protected() bool      { return n.IsDefault == 1 }
func (n Network) StoredDigest() string { return n.SpecHash }

func (n Network) Digest() string {
	h, _ := hash.CalculateResourceHash(n)
	return h
}

// BeforeCreate stamps the attribute digest on insert.
func (n *Network) BeforeCreate(tx *gorm.DB) error {
	n.SpecHash = n.Digest()
	return nil
}

func (n Network) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("network name is required")
	}
	if _, err := netip.ParsePrefix(n.CIDR); err != nil {
		return fmt.Errorf("network %s: invalid subnet cidr %q", n.Name, n.CIDR)
	}
	return nil
}

// Gateway is the first host address of the subnet.
func (n Network) Gateway() (string, error) {
	prefix, err := netip.ParsePrefix(n.CIDR)
	if err != nil {
		return "", err
	}
	gw := prefix.Masked().Addr().Next()
	if !prefix.Contains(gw) {
		return "", fmt.Errorf("subnet %s has no host addresses", n.CIDR)
	}
	return gw.String(), nil
}

// NodeNetwork records that a network has been materialized on a node.
type NodeNetwork struct {
	Id          int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	NodeName    string    `json:"node_name" gorm:"column:node_name;size:64;not null;uniqueIndex:uk_node_network"`
	NetworkName string    `json:"network_name" gorm:"column:network_name;size:64;not null;uniqueIndex:uk_node_network;index"`
	CreateTime  time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
}

func (NodeNetwork) TableName() string {
	return "node_network"
}
