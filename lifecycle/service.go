// lifecycle/service.go
package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/VishalDET/mcflassets-sub000/models"
	"github.com/VishalDET/mcflassets-sub000/store"
)

// Store collections owned by the lifecycle core.
const (
	CollectionAssets    = "assets"
	CollectionTransfers = "assetTransfers"
)

// Service enforces the rules that keep the asset record and the transfer
// ledger consistent. All persistence goes through the store contract; there
// is no in-process locking and no optimistic concurrency - the last write
// wins on the asset record, the ledger keeps every event.
type Service struct {
	store             store.Store
	now               func() time.Time
	logUnassignEvents bool
}

type Option func(*Service)

// WithClock overrides the operation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithUnassignEvents records administrative unassignments in the ledger as
// stock returns instead of leaving a gap in the trail.
func WithUnassignEvents(enabled bool) Option {
	return func(s *Service) { s.logUnassignEvents = enabled }
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateAssetInput struct {
	URN                 string     `json:"urn"`
	TaggingNo           string     `json:"taggingNo"`
	Product             string     `json:"product"`
	ProductCode         string     `json:"productCode"`
	ProductSerialNumber string     `json:"productSerialNumber"`
	BrandName           string     `json:"brandName"`
	Model               string     `json:"model"`
	Config              string     `json:"config"`
	CompanyID           string     `json:"companyId"`
	CompanyName         string     `json:"companyName"`
	Branch              string     `json:"branch"`
	BranchCode          string     `json:"branchCode"`
	Location            string     `json:"location"`
	LocationCode        string     `json:"locationCode"`
	DateOfAcquisition   *time.Time `json:"dateOfAcquisition"`
	WarrantyExpiry      *time.Time `json:"warrantyExpiry"`
	PurchasedFrom       string     `json:"purchasedFrom"`
	Amount              string     `json:"amount"`
}

// CreateAsset inserts a new asset record in stock. No transfer event is
// written: the initial state is not a transfer.
func (s *Service) CreateAsset(ctx context.Context, in CreateAssetInput) (*models.Asset, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"urn", in.URN},
		{"product", in.Product},
		{"productSerialNumber", in.ProductSerialNumber},
		{"taggingNo", in.TaggingNo},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Msg: "missing required fields: " + strings.Join(missing, ", ")}
	}

	now := s.now()
	asset := models.Asset{
		URN:                 in.URN,
		TaggingNo:           in.TaggingNo,
		Product:             in.Product,
		ProductCode:         in.ProductCode,
		ProductSerialNumber: in.ProductSerialNumber,
		BrandName:           in.BrandName,
		Model:               in.Model,
		Config:              in.Config,
		CompanyID:           in.CompanyID,
		CompanyName:         in.CompanyName,
		Branch:              in.Branch,
		BranchCode:          in.BranchCode,
		Location:            in.Location,
		LocationCode:        in.LocationCode,
		Status:              models.StatusActive,
		AssignedTo:          models.AssignedToStock,
		EmployeeID:          models.EmployeeNone,
		DateOfAcquisition:   in.DateOfAcquisition,
		WarrantyExpiry:      in.WarrantyExpiry,
		PurchasedFrom:       in.PurchasedFrom,
		Amount:              in.Amount,
		IsDeleted:           false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if in.DateOfAcquisition != nil {
		asset.YearOfAcquisition = in.DateOfAcquisition.Year()
	}

	id, err := s.store.Insert(ctx, CollectionAssets, asset)
	if err != nil {
		return nil, &StorageError{Op: "insert asset", Err: err}
	}
	asset.ID = id
	return &asset, nil
}

// getAsset loads a non-deleted asset. Soft-deleted assets are only visible
// through the bin listing.
func (s *Service) getAsset(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	err := s.store.Get(ctx, CollectionAssets, id, &asset)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Kind: "asset", ID: id}
	}
	if err != nil {
		return nil, &StorageError{Op: "get asset", Err: err}
	}
	if asset.IsDeleted {
		return nil, &NotFoundError{Kind: "asset", ID: id}
	}
	return &asset, nil
}

// GetAsset returns a non-deleted asset by id.
func (s *Service) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	return s.getAsset(ctx, id)
}

// AssetPatch is a partial update; nil fields are left untouched.
type AssetPatch struct {
	URN                 *string    `json:"urn"`
	TaggingNo           *string    `json:"taggingNo"`
	Product             *string    `json:"product"`
	ProductCode         *string    `json:"productCode"`
	ProductSerialNumber *string    `json:"productSerialNumber"`
	BrandName           *string    `json:"brandName"`
	Model               *string    `json:"model"`
	Config              *string    `json:"config"`
	CompanyID           *string    `json:"companyId"`
	CompanyName         *string    `json:"companyName"`
	Branch              *string    `json:"branch"`
	BranchCode          *string    `json:"branchCode"`
	Location            *string    `json:"location"`
	LocationCode        *string    `json:"locationCode"`
	Status              *string    `json:"status"`
	DateOfAcquisition   *time.Time `json:"dateOfAcquisition"`
	WarrantyExpiry      *time.Time `json:"warrantyExpiry"`
	PurchasedFrom       *string    `json:"purchasedFrom"`
	Amount              *string    `json:"amount"`
	InvoiceURL          *string    `json:"invoiceUrl"`
}

func validStatus(status string) bool {
	switch status {
	case models.StatusActive, models.StatusInactive, models.StatusAssigned,
		models.StatusInRepair, models.StatusScrapped:
		return true
	}
	return false
}

// EditAsset applies a partial update. Status "Assigned" is rejected here:
// assignment only happens through TransferAsset, which sets the assignee
// fields along with it. Any other status change on a person-held asset
// forces the same unassignment as UnassignAsset in the same write, so
// status and assignee fields never disagree. Changing the acquisition date
// re-derives yearOfAcquisition.
func (s *Service) EditAsset(ctx context.Context, id string, patch AssetPatch, actor models.Actor) error {
	asset, err := s.getAsset(ctx, id)
	if err != nil {
		return err
	}

	partial := map[string]interface{}{}
	setString := func(field string, v *string, required bool) error {
		if v == nil {
			return nil
		}
		if required && strings.TrimSpace(*v) == "" {
			return &ValidationError{Msg: field + " cannot be blank"}
		}
		partial[field] = *v
		return nil
	}

	for _, f := range []struct {
		field    string
		value    *string
		required bool
	}{
		{"urn", patch.URN, true},
		{"taggingNo", patch.TaggingNo, true},
		{"product", patch.Product, true},
		{"productCode", patch.ProductCode, false},
		{"productSerialNumber", patch.ProductSerialNumber, true},
		{"brandName", patch.BrandName, false},
		{"model", patch.Model, false},
		{"config", patch.Config, false},
		{"companyId", patch.CompanyID, false},
		{"companyName", patch.CompanyName, false},
		{"branch", patch.Branch, false},
		{"branchCode", patch.BranchCode, false},
		{"location", patch.Location, false},
		{"locationCode", patch.LocationCode, false},
		{"purchasedFrom", patch.PurchasedFrom, false},
		{"amount", patch.Amount, false},
		{"invoiceUrl", patch.InvoiceURL, false},
	} {
		if err := setString(f.field, f.value, f.required); err != nil {
			return err
		}
	}

	if patch.Status != nil {
		if !validStatus(*patch.Status) {
			return &ValidationError{Msg: "invalid status: " + *patch.Status}
		}
		if *patch.Status == models.StatusAssigned {
			return &ValidationError{Msg: "status Assigned is set by transferring the asset to a person"}
		}
		if *patch.Status == models.StatusScrapped && !actor.HasCapability(models.CapScrapAsset) {
			return &AuthorizationError{Msg: "not allowed to scrap assets"}
		}
		partial["status"] = *patch.Status
		if *patch.Status == models.StatusScrapped || asset.Assigned() {
			// Leaving Assigned returns the asset to stock.
			partial["assignedTo"] = models.AssignedToStock
			partial["employeeId"] = models.EmployeeNone
			partial["assignedDate"] = nil
		}
	}

	if patch.DateOfAcquisition != nil {
		partial["dateOfAcquisition"] = *patch.DateOfAcquisition
		partial["yearOfAcquisition"] = patch.DateOfAcquisition.Year()
	}
	if patch.WarrantyExpiry != nil {
		partial["warrantyExpiry"] = *patch.WarrantyExpiry
	}

	if len(partial) == 0 {
		return &ValidationError{Msg: "no fields to update"}
	}
	partial["updatedAt"] = s.now()

	if err := s.store.Update(ctx, CollectionAssets, id, partial); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &NotFoundError{Kind: "asset", ID: id}
		}
		return &StorageError{Op: "update asset", Err: err}
	}
	return nil
}

// SoftDelete moves an asset to the recycle bin.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	if _, err := s.getAsset(ctx, id); err != nil {
		return err
	}
	now := s.now()
	partial := map[string]interface{}{
		"isDeleted": true,
		"deletedAt": now,
		"updatedAt": now,
	}
	if err := s.store.Update(ctx, CollectionAssets, id, partial); err != nil {
		return &StorageError{Op: "soft-delete asset", Err: err}
	}
	return nil
}

// Restore brings an asset back from the recycle bin.
func (s *Service) Restore(ctx context.Context, id string) error {
	var asset models.Asset
	err := s.store.Get(ctx, CollectionAssets, id, &asset)
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Kind: "asset", ID: id}
	}
	if err != nil {
		return &StorageError{Op: "get asset", Err: err}
	}

	partial := map[string]interface{}{
		"isDeleted": false,
		"deletedAt": nil,
		"updatedAt": s.now(),
	}
	if err := s.store.Update(ctx, CollectionAssets, id, partial); err != nil {
		return &StorageError{Op: "restore asset", Err: err}
	}
	return nil
}

// PermanentlyDelete removes the asset record for good. Transfer events are
// deliberately kept; orphaned ledger rows stay retrievable.
func (s *Service) PermanentlyDelete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, CollectionAssets, id)
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Kind: "asset", ID: id}
	}
	if err != nil {
		return &StorageError{Op: "delete asset", Err: err}
	}
	return nil
}

// ListActiveAssets returns all non-deleted assets, newest first.
func (s *Service) ListActiveAssets(ctx context.Context) ([]models.Asset, error) {
	return s.listAssets(ctx, false)
}

// ListDeletedAssets returns the recycle bin, newest first.
func (s *Service) ListDeletedAssets(ctx context.Context) ([]models.Asset, error) {
	return s.listAssets(ctx, true)
}

func (s *Service) listAssets(ctx context.Context, deleted bool) ([]models.Asset, error) {
	var assets []models.Asset
	q := store.Query{
		Filters: []store.Filter{store.Eq("isDeleted", deleted)},
		OrderBy: "createdAt",
		Desc:    true,
	}
	if err := s.store.Find(ctx, CollectionAssets, q, &assets); err != nil {
		return nil, &StorageError{Op: "list assets", Err: err}
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}
