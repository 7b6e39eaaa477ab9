package model

import "time"

const (
	RentalKindServer    = "server"
	RentalKindContainer = "container"
)

// Rental is the durable record of one successfully provisioned lease.
type Rental struct {
	Id           int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Kind         string    `json:"kind" gorm:"column:kind;size:16;not null;index"`
	UserName     string    `json:"user_name" gorm:"column:user_name;size:64;not null;index"`
	Name         string    `json:"name" gorm:"column:name;size:64;not null;uniqueIndex:uk_rental_name"`
	StartDate    time.Time `json:"start_date" gorm:"column:start_date;type:date"`
	EndDate      time.Time `json:"end_date" gorm:"column:end_date;type:date;index"`
	NodeName     string    `json:"node_name" gorm:"column:node_name;size:64;not null;index:idx_rental_node_network;index:idx_rental_node_flavor"`
	NetworkName  string    `json:"network_name" gorm:"column:network_name;size:64;not null;index:idx_rental_node_network"`
	FlavorName   string    `json:"flavor_name" gorm:"column:flavor_name;size:64;index:idx_rental_node_flavor"` // empty for containers
	ImageName    string    `json:"image_name" gorm:"column:image_name;size:255"`
	InstanceID   string    `json:"instance_id" gorm:"column:instance_id;size:64"`
	Address      string    `json:"address" gorm:"column:address;size:64"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;size:128"` // containers only, bcrypt
	SagaID       string    `json:"saga_id" gorm:"column:saga_id;size:32"`
	CreateTime   time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime   time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`

	KeyFingerprint string `json:"key_fingerprint" gorm:"column:key_fingerprint;size:64"` // servers only
	// PrivateKey is set only on the rental Provision returns.
	PrivateKey     string `json:"-" gorm:"-"`
}

func (Rental) TableName() string {
	return "rental"
}

// Day truncates t to midnight UTC. Rental dates carry day granularity only.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
