// models/registry.go
package models

import "time"

// Master data registries. Flat name/code reference records; assets carry
// denormalized copies of these values taken at write time, so renaming a
// company or branch does not rewrite existing assets.

type Company struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Code      string    `bson:"code" json:"code"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Branch struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	CompanyID    string    `bson:"companyId" json:"companyId"`
	Name         string    `bson:"name" json:"name"`
	Code         string    `bson:"code" json:"code"`
	Location     string    `bson:"location,omitempty" json:"location,omitempty"`
	LocationCode string    `bson:"locationCode,omitempty" json:"locationCode,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

type Product struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Code      string    `bson:"code" json:"code"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Brand struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Supplier struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Contact   string    `bson:"contact,omitempty" json:"contact,omitempty"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Employee struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Name       string    `bson:"name" json:"name"`
	EmployeeNo string    `bson:"employeeNo" json:"employeeNo"`
	Email      string    `bson:"email,omitempty" json:"email,omitempty"`
	Department string    `bson:"department,omitempty" json:"department,omitempty"`
	CompanyID  string    `bson:"companyId,omitempty" json:"companyId,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
