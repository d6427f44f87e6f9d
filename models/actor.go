// models/actor.go
package models

// Capabilities gate the destructive operations. Resolved from the actor's
// role so the check is a real authorization rule, not an identity
// comparison against a hardcoded account.
type Capability string

const (
	// CapBulkUnassign allows bulk-unassigning assets that are currently
	// Assigned, and bulk-deleting them (they are unassigned first).
	CapBulkUnassign Capability = "bulk_unassign"
	// CapScrapAsset allows setting an asset's status to Scrapped.
	CapScrapAsset Capability = "scrap_asset"
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   string
	Name string
	Role string
}

func (a Actor) HasCapability(c Capability) bool {
	switch c {
	case CapBulkUnassign:
		return a.Role == "superadmin"
	case CapScrapAsset:
		return a.Role == "superadmin" || a.Role == "admin"
	}
	return false
}
