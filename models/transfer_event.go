// models/transfer_event.go
package models

import "time"

// TransferEvent is one row of the append-only transfer ledger. Events are
// never edited for content: correcting a transfer writes a new event and
// flips isSuperseded on the old one, so history stays complete.
type TransferEvent struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	AssetID      string     `bson:"assetId" json:"assetId"`
	FromCompany  string     `bson:"fromCompany,omitempty" json:"fromCompany,omitempty"`
	FromBranch   string     `bson:"fromBranch,omitempty" json:"fromBranch,omitempty"`
	FromLocation string     `bson:"fromLocation,omitempty" json:"fromLocation,omitempty"`
	ToCompany    string     `bson:"toCompany" json:"toCompany"`
	ToBranch     string     `bson:"toBranch,omitempty" json:"toBranch,omitempty"`
	ToLocation   string     `bson:"toLocation,omitempty" json:"toLocation,omitempty"`
	AssignedTo   string     `bson:"assignedTo" json:"assignedTo"`
	EmployeeID   string     `bson:"employeeId" json:"employeeId"`
	AssignedDate *time.Time `bson:"assignedDate,omitempty" json:"assignedDate,omitempty"`
	Reason       string     `bson:"reason,omitempty" json:"reason,omitempty"`
	AssignedBy   string     `bson:"assignedBy" json:"assignedBy"`
	TransferDate time.Time  `bson:"transferDate" json:"transferDate"`
	IsSuperseded bool       `bson:"isSuperseded" json:"isSuperseded"`
	SupersededAt *time.Time `bson:"supersededAt,omitempty" json:"supersededAt,omitempty"`
	SupersededBy string     `bson:"supersededBy,omitempty" json:"supersededBy,omitempty"`
	Supersedes   string     `bson:"supersedes,omitempty" json:"supersedes,omitempty"`
}
