package domain

import "time"

// Vendor is the DNS backend that hosts a domain's zone.
type Vendor string

const (
	VendorCloudflare Vendor = "cloudflare"
	VendorDNSPod     Vendor = "dnspod"
	VendorAliyun     Vendor = "aliyun"
)

// Vendors lists every vendor the API accepts, in display order.
var Vendors = []Vendor{VendorCloudflare, VendorDNSPod, VendorAliyun}

// Domain is a domain registered with the API.
type Domain struct {
	ID        int64      `json:"ID"`
	Name      string     `json:"Name"`
	Vendor    Vendor     `json:"vendor"`
	ICPReg    int        `json:"ICP_reg"` // 1 when the domain carries an ICP filing
	CreatedAt time.Time  `json:"CreatedAt"`
	UpdatedAt time.Time  `json:"UpdatedAt"`
	DeletedAt *time.Time `json:"DeletedAt"`
}

// HasICP reports whether the domain is ICP registered.
func (d Domain) HasICP() bool { return d.ICPReg == 1 }

// CreateDomainOpts holds the parameters for registering a domain.
type CreateDomainOpts struct {
	Name      string `json:"name"`
	Vendor    Vendor `json:"vendor"`
	APIID     string `json:"api_id"`
	APISecret string `json:"api_secret"`
	ICPReg    int    `json:"ICP_reg"`
}

// UpdateDomainOpts holds the parameters for updating a domain.
// Empty fields are left unchanged. The ICP flag cannot be changed
// through an update.
type UpdateDomainOpts struct {
	Name      string `json:"name,omitempty"`
	Vendor    Vendor `json:"vendor,omitempty"`
	APIID     string `json:"api_id,omitempty"`
	APISecret string `json:"api_secret,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (o UpdateDomainOpts) IsEmpty() bool {
	return o.Name == "" && o.Vendor == "" && o.APIID == "" && o.APISecret == ""
}
