// lifecycle/transfer.go
package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/VishalDET/mcflassets-sub000/models"
	"github.com/VishalDET/mcflassets-sub000/store"
)

type TransferInput struct {
	ToCompanyID    string     `json:"toCompanyId"`
	ToCompany      string     `json:"toCompany"`
	ToBranch       string     `json:"toBranch"`
	ToBranchCode   string     `json:"toBranchCode"`
	ToLocation     string     `json:"toLocation"`
	ToLocationCode string     `json:"toLocationCode"`
	AssignedTo     string     `json:"assignedTo"`
	EmployeeID     string     `json:"employeeId"`
	AssignedDate   *time.Time `json:"assignedDate"`
	Reason         string     `json:"reason"`
}

func (in *TransferInput) validate() error {
	if strings.TrimSpace(in.ToCompany) == "" {
		return &ValidationError{Msg: "destination company is required"}
	}
	if strings.TrimSpace(in.AssignedTo) == "" {
		return &ValidationError{Msg: "assignee is required"}
	}
	if in.AssignedTo != models.AssignedToStock &&
		(strings.TrimSpace(in.EmployeeID) == "" || in.EmployeeID == models.EmployeeNone) {
		return &ValidationError{Msg: "employee id is required when assigning to a person"}
	}
	return nil
}

// assignment state the input resolves to on the asset record. A transfer to
// "Stock" is a relocation, not an assignment.
func (in *TransferInput) assignment(now time.Time) (status, employeeID string, assignedDate interface{}) {
	if in.AssignedTo == models.AssignedToStock {
		return models.StatusActive, models.EmployeeNone, nil
	}
	date := now
	if in.AssignedDate != nil {
		date = *in.AssignedDate
	}
	return models.StatusAssigned, in.EmployeeID, date
}

// TransferAsset appends a ledger event and then applies the destination to
// the asset record. The from* fields snapshot the asset record as it is now,
// not the previous ledger event, so a record that diverged from the ledger
// propagates its (possibly stale) state into the new event. The asset update
// is the step that completes the transfer: if it fails, the event already
// exists and RepairAssetFromLedger can reconcile later. The event written so
// far is returned alongside the error in that case.
func (s *Service) TransferAsset(ctx context.Context, assetID string, in TransferInput, actor models.Actor) (*models.TransferEvent, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	asset, err := s.getAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	event := models.TransferEvent{
		AssetID:      assetID,
		FromCompany:  asset.CompanyName,
		FromBranch:   asset.Branch,
		FromLocation: asset.Location,
		ToCompany:    in.ToCompany,
		ToBranch:     in.ToBranch,
		ToLocation:   in.ToLocation,
		AssignedTo:   in.AssignedTo,
		EmployeeID:   in.EmployeeID,
		AssignedDate: in.AssignedDate,
		Reason:       in.Reason,
		AssignedBy:   actor.ID,
		TransferDate: now,
	}
	if event.AssignedTo == models.AssignedToStock {
		event.EmployeeID = models.EmployeeNone
	}

	eventID, err := s.store.Insert(ctx, CollectionTransfers, event)
	if err != nil {
		return nil, &StorageError{Op: "append transfer event", Err: err}
	}
	event.ID = eventID

	status, employeeID, assignedDate := in.assignment(now)
	partial := map[string]interface{}{
		"companyId":    in.ToCompanyID,
		"companyName":  in.ToCompany,
		"branch":       in.ToBranch,
		"branchCode":   in.ToBranchCode,
		"location":     in.ToLocation,
		"locationCode": in.ToLocationCode,
		"assignedTo":   in.AssignedTo,
		"employeeId":   employeeID,
		"assignedDate": assignedDate,
		"status":       status,
		"updatedAt":    now,
	}
	if err := s.store.Update(ctx, CollectionAssets, assetID, partial); err != nil {
		// Ledger holds the event, the record does not reflect it yet.
		return &event, &StorageError{Op: "apply transfer to asset", Err: err}
	}
	return &event, nil
}

type EditTransferResult struct {
	Event *models.TransferEvent `json:"event"`
	// DisplayUpdated is false when the asset record's assignee no longer
	// matched the edited event's, meaning a newer transfer happened since;
	// the ledger is corrected but the record is left alone.
	DisplayUpdated bool `json:"displayUpdated"`
}

// EditTransfer corrects an earlier transfer without mutating its content:
// the old event is flagged superseded and a new event carrying the corrected
// values (and a back-reference) is appended.
func (s *Service) EditTransfer(ctx context.Context, oldEventID string, in TransferInput, actor models.Actor) (*EditTransferResult, error) {
	var oldEvent models.TransferEvent
	err := s.store.Get(ctx, CollectionTransfers, oldEventID, &oldEvent)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Kind: "transfer event", ID: oldEventID}
	}
	if err != nil {
		return nil, &StorageError{Op: "get transfer event", Err: err}
	}

	now := s.now()
	supersede := map[string]interface{}{
		"isSuperseded": true,
		"supersededAt": now,
		"supersededBy": actor.ID,
	}
	if err := s.store.Update(ctx, CollectionTransfers, oldEventID, supersede); err != nil {
		return nil, &StorageError{Op: "supersede transfer event", Err: err}
	}

	// Corrected event: old values with the supplied fields overlaid.
	newEvent := oldEvent
	newEvent.ID = ""
	newEvent.Supersedes = oldEventID
	newEvent.IsSuperseded = false
	newEvent.SupersededAt = nil
	newEvent.SupersededBy = ""
	newEvent.TransferDate = now
	newEvent.AssignedBy = actor.ID
	if in.ToCompany != "" {
		newEvent.ToCompany = in.ToCompany
	}
	if in.ToBranch != "" {
		newEvent.ToBranch = in.ToBranch
	}
	if in.ToLocation != "" {
		newEvent.ToLocation = in.ToLocation
	}
	if in.AssignedTo != "" {
		newEvent.AssignedTo = in.AssignedTo
	}
	if in.EmployeeID != "" {
		newEvent.EmployeeID = in.EmployeeID
	}
	if in.AssignedDate != nil {
		newEvent.AssignedDate = in.AssignedDate
	}
	if in.Reason != "" {
		newEvent.Reason = in.Reason
	}
	if newEvent.AssignedTo == models.AssignedToStock {
		newEvent.EmployeeID = models.EmployeeNone
	}

	newID, err := s.store.Insert(ctx, CollectionTransfers, newEvent)
	if err != nil {
		return nil, &StorageError{Op: "append corrected transfer event", Err: err}
	}
	newEvent.ID = newID

	result := &EditTransferResult{Event: &newEvent}

	// Only touch the record if it still shows the assignee of the event
	// being edited; otherwise a newer transfer owns the display state.
	asset, err := s.getAsset(ctx, oldEvent.AssetID)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return result, nil
		}
		return result, err
	}
	if asset.AssignedTo != oldEvent.AssignedTo {
		return result, nil
	}

	status, employeeID, assignedDate := (&TransferInput{
		AssignedTo:   newEvent.AssignedTo,
		EmployeeID:   newEvent.EmployeeID,
		AssignedDate: newEvent.AssignedDate,
	}).assignment(now)
	partial := map[string]interface{}{
		"companyName":  newEvent.ToCompany,
		"branch":       newEvent.ToBranch,
		"location":     newEvent.ToLocation,
		"assignedTo":   newEvent.AssignedTo,
		"employeeId":   employeeID,
		"assignedDate": assignedDate,
		"status":       status,
		"updatedAt":    now,
	}
	if in.ToCompanyID != "" {
		partial["companyId"] = in.ToCompanyID
	}
	if in.ToBranchCode != "" {
		partial["branchCode"] = in.ToBranchCode
	}
	if in.ToLocationCode != "" {
		partial["locationCode"] = in.ToLocationCode
	}
	if err := s.store.Update(ctx, CollectionAssets, oldEvent.AssetID, partial); err != nil {
		return result, &StorageError{Op: "apply corrected transfer to asset", Err: err}
	}
	result.DisplayUpdated = true
	return result, nil
}

// UnassignAsset returns an asset to stock. By default no ledger event is
// written: this is modeled as an administrative correction, which leaves a
// gap in the audit trail between "assigned" and "in stock". The
// LOG_UNASSIGN_EVENTS option records a stock return instead.
func (s *Service) UnassignAsset(ctx context.Context, id string, actor models.Actor) error {
	asset, err := s.getAsset(ctx, id)
	if err != nil {
		return err
	}

	now := s.now()
	partial := map[string]interface{}{
		"status":       models.StatusActive,
		"assignedTo":   models.AssignedToStock,
		"employeeId":   models.EmployeeNone,
		"assignedDate": nil,
		"updatedAt":    now,
	}
	if err := s.store.Update(ctx, CollectionAssets, id, partial); err != nil {
		return &StorageError{Op: "unassign asset", Err: err}
	}

	if s.logUnassignEvents && asset.Assigned() {
		event := models.TransferEvent{
			AssetID:      id,
			FromCompany:  asset.CompanyName,
			FromBranch:   asset.Branch,
			FromLocation: asset.Location,
			ToCompany:    asset.CompanyName,
			ToBranch:     asset.Branch,
			ToLocation:   asset.Location,
			AssignedTo:   models.AssignedToStock,
			EmployeeID:   models.EmployeeNone,
			Reason:       "Returned to stock",
			AssignedBy:   actor.ID,
			TransferDate: now,
		}
		if _, err := s.store.Insert(ctx, CollectionTransfers, event); err != nil {
			return &StorageError{Op: "append stock return event", Err: err}
		}
	}
	return nil
}

// History returns the full transfer trail for an asset, newest first,
// superseded events included. The trail is materialized rather than streamed:
// per-asset trails stay small, and a retry simply re-runs the query. It works
// for permanently deleted assets too: orphaned events stay retrievable.
func (s *Service) History(ctx context.Context, assetID string) ([]models.TransferEvent, error) {
	var events []models.TransferEvent
	q := store.Query{
		Filters: []store.Filter{store.Eq("assetId", assetID)},
		OrderBy: "transferDate",
		Desc:    true,
	}
	if err := s.store.Find(ctx, CollectionTransfers, q, &events); err != nil {
		return nil, &StorageError{Op: "load transfer history", Err: err}
	}
	if events == nil {
		events = []models.TransferEvent{}
	}
	return events, nil
}

// RepairAssetFromLedger re-derives the asset record's display state from the
// latest non-superseded ledger event. It reconciles the window where a
// transfer event was appended but the asset update did not commit. Returns
// false when the ledger holds no events for the asset.
func (s *Service) RepairAssetFromLedger(ctx context.Context, assetID string) (bool, error) {
	if _, err := s.getAsset(ctx, assetID); err != nil {
		return false, err
	}

	var events []models.TransferEvent
	q := store.Query{
		Filters: []store.Filter{
			store.Eq("assetId", assetID),
			store.Eq("isSuperseded", false),
		},
		OrderBy: "transferDate",
		Desc:    true,
		Limit:   1,
	}
	if err := s.store.Find(ctx, CollectionTransfers, q, &events); err != nil {
		return false, &StorageError{Op: "load latest transfer event", Err: err}
	}
	if len(events) == 0 {
		return false, nil
	}

	latest := events[0]
	status, employeeID, assignedDate := (&TransferInput{
		AssignedTo:   latest.AssignedTo,
		EmployeeID:   latest.EmployeeID,
		AssignedDate: latest.AssignedDate,
	}).assignment(latest.TransferDate)
	// Ledger events snapshot display names only; id/code fields are not
	// recoverable from the ledger and keep their current values.
	partial := map[string]interface{}{
		"companyName":  latest.ToCompany,
		"branch":       latest.ToBranch,
		"location":     latest.ToLocation,
		"assignedTo":   latest.AssignedTo,
		"employeeId":   employeeID,
		"assignedDate": assignedDate,
		"status":       status,
		"updatedAt":    s.now(),
	}
	if err := s.store.Update(ctx, CollectionAssets, assetID, partial); err != nil {
		return false, &StorageError{Op: "repair asset from ledger", Err: err}
	}
	return true, nil
}
