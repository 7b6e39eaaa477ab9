package model

import (
	"fmt"
	"time"

	"cloudrent/pkg/hash"

	"gorm.io/gorm"
)

// Flavor is a compute profile: vCPUs, memory in MiB, disk in GiB.
type Flavor struct {
	Id         int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `json:"name" gorm:"column:name;size:64;not null;uniqueIndex:uk_flavor_name"`
	VCPU       int       `json:"vcpu" gorm:"column:vcpu"`
	RAM        int       `json:"ram" gorm:"column:ram"`
	Disk       int       `json:"disk" gorm:"column:disk"`
	IsDefault  int8      `json:"is_default" gorm:"column:is_default;default:0"`
	SpecHash   string    `json:"spec_hash" gorm:"column:spec_hash;size:64"`
	CreateTime time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
}

func (Flavor) TableName() string {
	return "flavor"
}

func (f Flavor) ResourceName() string { return f.Name }
func (f Flavor) Protected() bool      { return f.IsDefault == 1 }
func (f Flavor) StoredDigest() string { return f.SpecHash }

func (f Flavor) Digest() string {
	h, _ := hash.CalculateResourceHash(f)
	return h
}

// BeforeCreate stamps the attribute digest on insert.
func (f *Flavor) BeforeCreate(tx *gorm.DB) error {
	f.SpecHash = f.Digest()
	return nil
}

func (f Flavor) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("flavor name is required")
	}
	if f.VCPU <= 0 || f.RAM <= 0 || f.Disk <= 0 {
		return fmt.Errorf("flavor %s: vcpus, ram and disk must be positive", f.Name)
	}
	return nil
}

// NodeFlavor records that a flavor has been materialized on a node.
type NodeFlavor struct {
	Id         int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	NodeName   string    `json:"node_name" gorm:"column:node_name;size:64;not null;uniqueIndex:uk_node_flavor"`
	FlavorName string    `json:"flavor_name" gorm:"column:flavor_name;size:64;not null;uniqueIndex:uk_node_flavor;index"`
	CreateTime time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
}

func (NodeFlavor) TableName() string {
	return "node_flavor"
}
