package v1

type ListImageRequest struct {
	NodeName string `form:"node_name" binding:"required" example:"pve01"`
}

type ImageItem struct {
	Name string `json:"name" example:"ubuntu-22.04"`
}

type ListImageResponse struct {
	Response
	Data []ImageItem
}

type FlavorItem struct {
	Name  string `json:"name" example:"m1.small"`
	VCPUs int    `json:"vcpus" example:"2"`
	RAM   int    `json:"ram" example:"2048"` // MiB
	Disk  int    `json:"disk" example:"20"`  // GiB
}

type ListFlavorResponse struct {
	Response
	Data []FlavorItem
}

// NodeUsageData sums the flavors of the servers rented on one node.
type NodeUsageData struct {
	NodeName string  `json:"node_name" example:"pve01"`
	Count    int64   `json:"count" example:"3"`
	VCPUs    int64   `json:"vcpus" example:"6"`
	RAM      float64 `json:"ram" example:"6"` // GiB
	Disk     int64   `json:"disk" example:"60"`
}

type NodeUsageResponse struct {
	Response
	Data NodeUsageData
}
