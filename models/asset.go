// models/asset.go
package models

import "time"

// Asset statuses. "Assigned" is only valid when the asset is held by a
// person (assignedTo not "Stock", employeeId not "N/A").
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusAssigned = "Assigned"
	StatusInRepair = "In Repair"
	StatusScrapped = "Scrapped"
)

// Placeholder values for unassigned assets.
const (
	AssignedToStock = "Stock"
	EmployeeNone    = "N/A"
)

type Asset struct {
	ID                  string     `bson:"_id,omitempty" json:"id"`
	URN                 string     `bson:"urn" json:"urn"`
	TaggingNo           string     `bson:"taggingNo" json:"taggingNo"`
	Product             string     `bson:"product" json:"product"`
	ProductCode         string     `bson:"productCode,omitempty" json:"productCode,omitempty"`
	ProductSerialNumber string     `bson:"productSerialNumber" json:"productSerialNumber"`
	BrandName           string     `bson:"brandName,omitempty" json:"brandName,omitempty"`
	Model               string     `bson:"model,omitempty" json:"model,omitempty"`
	Config              string     `bson:"config,omitempty" json:"config,omitempty"`
	CompanyID           string     `bson:"companyId,omitempty" json:"companyId,omitempty"`
	CompanyName         string     `bson:"companyName,omitempty" json:"companyName,omitempty"`
	Branch              string     `bson:"branch,omitempty" json:"branch,omitempty"`
	BranchCode          string     `bson:"branchCode,omitempty" json:"branchCode,omitempty"`
	Location            string     `bson:"location,omitempty" json:"location,omitempty"`
	LocationCode        string     `bson:"locationCode,omitempty" json:"locationCode,omitempty"`
	Status              string     `bson:"status" json:"status"`
	AssignedTo          string     `bson:"assignedTo" json:"assignedTo"`
	EmployeeID          string     `bson:"employeeId" json:"employeeId"`
	AssignedDate        *time.Time `bson:"assignedDate" json:"assignedDate"`
	DateOfAcquisition   *time.Time `bson:"dateOfAcquisition,omitempty" json:"dateOfAcquisition,omitempty"`
	YearOfAcquisition   int        `bson:"yearOfAcquisition,omitempty" json:"yearOfAcquisition,omitempty"`
	WarrantyExpiry      *time.Time `bson:"warrantyExpiry,omitempty" json:"warrantyExpiry,omitempty"`
	PurchasedFrom       string     `bson:"purchasedFrom,omitempty" json:"purchasedFrom,omitempty"`
	Amount              string     `bson:"amount,omitempty" json:"amount,omitempty"`
	InvoiceURL          string     `bson:"invoiceUrl,omitempty" json:"invoiceUrl,omitempty"`
	IsDeleted           bool       `bson:"isDeleted" json:"isDeleted"`
	DeletedAt           *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt           time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Assigned reports whether the asset is currently held by a person.
func (a *Asset) Assigned() bool {
	return a.AssignedTo != "" && a.AssignedTo != AssignedToStock && a.EmployeeID != EmployeeNone
}
