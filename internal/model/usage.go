package model

// NodeUsage totals the server rentals placed on one node. RAM is in MiB and
// Disk in GiB, the units of Flavor.
type NodeUsage struct {
	Count int64 `gorm:"column:count"`
	VCPUs int64 `gorm:"column:vcpus"`
	RAM   int64 `gorm:"column:ram"`
	Disk  int64 `gorm:"column:disk"`
}
