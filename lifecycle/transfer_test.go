package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VishalDET/mcflassets-sub000/models"
)

func TestTransferValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	asset := mustCreate(t, svc, validCreateInput())

	cases := []struct {
		name string
		in   TransferInput
	}{
		{"missing company", TransferInput{AssignedTo: "Jane Doe", EmployeeID: "E100"}},
		{"missing assignee", TransferInput{ToCompany: "Acme Ltd"}},
		{"person without employee id", TransferInput{ToCompany: "Acme Ltd", AssignedTo: "Jane Doe"}},
		{"person with placeholder employee id", TransferInput{ToCompany: "Acme Ltd", AssignedTo: "Jane Doe", EmployeeID: models.EmployeeNone}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.TransferAsset(context.Background(), asset.ID, tc.in, admin)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
		})
	}

	// Rejected transfers must write nothing to the ledger.
	history, err := svc.History(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history has %d events after rejected transfers, want 0", len(history))
	}
}

func TestTransferToPerson(t *testing.T) {
	svc, _, clk := newTestService(t)
	asset := mustCreate(t, svc, validCreateInput())

	clk.Advance(time.Hour)
	event, err := svc.TransferAsset(context.Background(), asset.ID, TransferInput{
		ToCompanyID:  "c2",
		ToCompany:    "Globex Inc",
		ToBranch:     "East",
		ToBranchCode: "EB",
		ToLocation:   "Floor 5",
		AssignedTo:   "Jane Doe",
		EmployeeID:   "E100",
		Reason:       "New joiner",
	}, admin)
	if err != nil {
		t.Fatalf("TransferAsset: %v", err)
	}

	// Event snapshots the record's pre-transfer state as origin.
	if event.FromCompany != "Acme Ltd" || event.FromBranch != "HQ" || event.FromLocation != "Floor 2" {
		t.Errorf("from = %q/%q/%q, want the prior record state", event.FromCompany, event.FromBranch, event.FromLocation)
	}
	if event.AssignedBy != admin.ID {
		t.Errorf("assignedBy = %q, want %q", event.AssignedBy, admin.ID)
	}
	if !event.TransferDate.Equal(clk.Now()) {
		t.Errorf("transferDate = %v, want %v", event.TransferDate, clk.Now())
	}

	// Record now reflects the destination.
	got := mustGet(t, svc, asset.ID)
	if got.CompanyID != "c2" || got.CompanyName != "Globex Inc" || got.Branch != "East" || got.Location != "Floor 5" {
		t.Errorf("record destination = %q/%q/%q/%q", got.CompanyID, got.CompanyName, got.Branch, got.Location)
	}
	if got.Status != models.StatusAssigned {
		t.Errorf("status = %q, want %q", got.Status, models.StatusAssigned)
	}
	if got.AssignedTo != "Jane Doe" || got.EmployeeID != "E100" {
		t.Errorf("assignee = %q/%q", got.AssignedTo, got.EmployeeID)
	}
	if got.AssignedDate == nil || !got.AssignedDate.Equal(clk.Now()) {
		t.Errorf("assignedDate = %v, want transfer time when none supplied", got.AssignedDate)
	}
}

func TestTransferToStockIsRelocation(t *testing.T) {
	svc, _, _ := newTestService(t)
	asset := mustCreate(t, svc, validCreateInput())

	_, err := svc.TransferAsset(context.Background(), asset.ID, TransferInput{
		ToCompany:  "Acme Ltd",
		AssignedTo: "Jane Doe",
		EmployeeID: "E100",
	}, admin)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	event, err := svc.TransferAsset(context.Background(), asset.ID, TransferInput{
		ToCompany:  "Globex Inc",
		ToBranch:   "West",
		AssignedTo: models.AssignedToStock,
	}, admin)
	if err != nil {
		t.Fatalf("relocate: %v", err)
	}
	if event.EmployeeID != models.EmployeeNone {
		t.Errorf("event employeeId = %q, want %q", event.EmployeeID, models.EmployeeNone)
	}

	got := mustGet(t, svc, asset.ID)
	if got.Status != models.StatusActive {
		t.Errorf("status = %q, want %q after stock relocation", got.Status, models.StatusActive)
	}
	if got.AssignedTo != models.AssignedToStock || got.EmployeeID != models.EmployeeNone {
		t.Errorf("assignee = %q/%q, want stock placeholders", got.AssignedTo, got.EmployeeID)
	}
	if got.AssignedDate != nil {
		t.Errorf("assignedDate = %v, want nil", got.AssignedDate)
	}
	if got.CompanyName != "Globex Inc" {
		t.Errorf("companyName = %q, relocation must still move the asset", got.CompanyName)
	}
}

func TestTransferDeletedAsset(t *testing.T) {
	svc, _, _ := newTestService(t)
	asset := mustCreate(t, svc, validCreateInput())
	if err := svc.SoftDelete(context.Background(), asset.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	_, err := svc.TransferAsset(context.Background(), asset.ID, TransferInput{
		ToCompany:  "Acme Ltd",
		AssignedTo: "Jane Doe",
		EmployeeID: "E100",
	}, admin)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	svc, _, clk := newTestService(t)
	asset := mustCreate(t, svc, validCreateInput())

	for i, to := range []string{"Globex Inc", "Initech", "Umbrella"} {
		clk.Advance(time.Hour)
		_, err := svc.TransferAsset(context.Background(), asset.ID, TransferInput{
			ToCompany:  to,
			AssignedTo: models.AssignedToStock,
		}, admin)
		if err != nil {
			t.Fatalf("transfer %d: %v", i, err)
		}
	}

	history, err := svc.History(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history has %d events, want 3", len(history))
	}
	if history[0].ToCompany != "Umbrella" || history[2].ToCompany != "Globex Inc" {
		t.Errorf("order = [%s %s %s], want newest first",
			history[0].ToCompany, history[1].ToCompany, history[2].ToCompany)
	}
	for i := 0; i < len(history)-1; i++ {
		if history[i].TransferDate.Before(history[i+1].TransferDate) {
			t.Errorf("history[%d] older than history[%d]", i, i+1)
		}
	}
}

func TestEditTransferSupersedes(t *testing.T) {
	svc, _, clk := newTestService(t)
	asset := mustCreate(t, svc, validCreateInput())

	original, err := svc.TransferAsset(context.Background(), asset.ID, TransferInput{
		ToCompany:  "Globex Inc",
		ToBranch:   "East",
		AssignedTo: "Jane Doe",
		EmployeeID: "E100",
	}, admin)
	if err != nil {
		t.Fatalf("TransferAsset: %v", err)
	}

	clk.Advance(time.Hour)
	result, err := svc.EditTransfer(context.Background(), original.ID, TransferInput{
		ToBranch: "West",
	}, superadmin)
	if err != nil {
		t.Fatalf("EditTransfer: %v", err)
	}
	if !result.DisplayUpdated {
		t.Error("expected the record to be updated, assignee still matches")
	}
	corrected := result.Event
	if corrected.ID == original.ID {
		t.Fatal("corrected event reused the original id")
	}
	if corrected.Supersedes != original.ID {
		t.Errorf("supersedes = %q, want %q", corrected.Supersedes, original.ID)
	}
	// Untouched fields carry over from the original event.
	if corrected.ToCompany != "Globex Inc" || corrected.ToBranch != "West" {
		t.Errorf("corrected destination = %q/%q", corrected.ToCompany, corrected.ToBranch)
	}
	if corrected.AssignedTo != "Jane Doe" || corrected.EmployeeID != "E100" {
		t.Errorf("corrected assignee = %q/%q", corrected.AssignedTo, corrected.EmployeeID)
	}

	// Both events remain in history, the old one flagged.
	history, err := svc.History(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d events, want 2", len(history))
	}
	var old *models.TransferEvent
	for i := range history {
		if history[i].ID == original.ID {
			old = &history[i]
		}
	}
	if old == nil {
		t.Fatal("original event missing from history")
	}
	if !old.IsSuperseded {
		t.Error("original event not flagged superseded")
	}
	if old.SupersededBy != superadmin.ID {
		t.Errorf("supersededBy = %q, want %q", old.SupersededBy, superadmin.ID)
	}
	if old.ToBranch != "East" {
		t.Errorf("original event content mutated: toBranch = %q", old.ToBranch)
	}

	got := mustGet(t, svc, asset.ID)
	if got.Branch != "West" {
		t.Errorf("record branch = %q, want %q", got.Branch, "West")
	}
}

func TestEditTransferStaleAssigneeLeavesRecord(t *testing.T) {
	svc, _, clk := newTestService(t)
	asset := mustCreate(t, svc, validCreateInput())

	first, err := svc.TransferAsset(context.Background(), asset.ID, TransferInput{
		ToCompany:  "Globex Inc",
		AssignedTo: "Jane Doe",
		EmployeeID: "E100",
	}, admin)
	if err != nil {
		t.Fatalf("first transfer: %v", err)
	}

	clk.Advance(time.Hour)
	_, err = svc.TransferAsset(context.Background(), asset.ID, TransferInput{
		ToCompany:  "Initech",
		AssignedTo: "John Roe",
		EmployeeID: "E200",
	}, admin)
	if err != nil {
		t.Fatalf("second transfer: %v", err)
	}

	clk.Advance(time.Hour)
	result, err := svc.EditTransfer(context.Background(), first.ID, TransferInput{
		ToCompany: "Globex Industries",
	}, superadmin)
	if err != nil {
		t.Fatalf("EditTransfer: %v", err)
	}
	if result.DisplayUpdated {
		t.Error("editing a superseded-by-later-transfer event must not touch the record")
	}

	// The record still shows the latest transfer.
	got := mustGet(t, svc, asset.ID)
	if got.CompanyName != "Initech" || got.AssignedTo != "John Roe" {
		t.Errorf("record = %q/%q, want Initech/John Roe", got.CompanyName, got.AssignedTo)
	}

	// The ledger is corrected regardless.
	history, err := svc.History(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history has %d events, want 3", len(history))
	}
}

func TestEditTransferNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.EditTransfer(context.Background(), "missing", TransferInput{ToCompany: "Acme Ltd"}, superadmin)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestUnassignAsset(t *testing.T) {
	svc, _, _ := newTestService(t)
	asset := mustCreate(t, svc, validCreateInput())

	_, err := svc.TransferAsset(context.Background(), asset.ID, TransferInput{
		ToCompany:  "Acme Ltd",
		AssignedTo: "Jane Doe",
		EmployeeID: "E100",
	}, admin)
	if err != nil {
		t.Fatalf("TransferAsset: %v", err)
	}

	if err := svc.UnassignAsset(context.Background(), asset.ID, admin); err != nil {
		t.Fatalf("UnassignAsset: %v", err)
	}

	got := mustGet(t, svc, asset.ID)
	if got.Status != models.StatusActive || got.AssignedTo != models.AssignedToStock ||
		got.EmployeeID != models.EmployeeNone || got.AssignedDate != nil {
		t.Errorf("record not reset: status=%q assignedTo=%q employeeId=%q assignedDate=%v",
			got.Status, got.AssignedTo, got.EmployeeID, got.AssignedDate)
	}
	// Location fields are untouched: unassignment is not a move.
	if got.CompanyName != "Acme Ltd" {
		t.Errorf("companyName = %q, unassign must not relocate", got.CompanyName)
	}

	// Default mode records no ledger event for the correction.
	history, err := svc.History(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history has %d events, want only the original transfer", len(history))
	}
}

func TestUnassignAssetWithLedgerEvents(t *testing.T) {
	svc, _, clk := newTestService(t, WithUnassignEvents(true))
	asset := mustCreate(t, svc, validCreateInput())

	_, err := svc.TransferAsset(context.Background(), asset.ID, TransferInput{
		ToCompany:  "Acme Ltd",
		AssignedTo: "Jane Doe",
		EmployeeID: "E100",
	}, admin)
	if err != nil {
		t.Fatalf("TransferAsset: %v", err)
	}

	clk.Advance(time.Hour)
	if err := svc.UnassignAsset(context.Background(), asset.ID, admin); err != nil {
		t.Fatalf("UnassignAsset: %v", err)
	}

	history, err := svc.History(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d events, want transfer + stock return", len(history))
	}
	ret := history[0]
	if ret.AssignedTo != models.AssignedToStock {
		t.Errorf("return event assignee = %q, want %q", ret.AssignedTo, models.AssignedToStock)
	}

	// Unassigning an already unassigned asset writes no further event.
	if err := svc.UnassignAsset(context.Background(), asset.ID, admin); err != nil {
		t.Fatalf("second UnassignAsset: %v", err)
	}
	history, _ = svc.History(context.Background(), asset.ID)
	if len(history) != 2 {
		t.Errorf("history grew to %d on no-op unassign", len(history))
	}
}

func TestRepairAssetFromLedger(t *testing.T) {
	svc, mem, clk := newTestService(t)
	asset := mustCreate(t, svc, validCreateInput())

	clk.Advance(time.Hour)
	event, err := svc.TransferAsset(context.Background(), asset.ID, TransferInput{
		ToCompany:  "Globex Inc",
		ToBranch:   "East",
		ToLocation: "Floor 5",
		AssignedTo: "Jane Doe",
		EmployeeID: "E100",
	}, admin)
	if err != nil {
		t.Fatalf("TransferAsset: %v", err)
	}

	// Simulate the record missing the transfer: rewind it by hand.
	err = mem.Update(context.Background(), CollectionAssets, asset.ID, map[string]interface{}{
		"companyName": "Acme Ltd",
		"branch":      "HQ",
		"location":    "Floor 2",
		"assignedTo":  models.AssignedToStock,
		"employeeId":  models.EmployeeNone,
		"status":      models.StatusActive,
	})
	if err != nil {
		t.Fatalf("rewind record: %v", err)
	}

	repaired, err := svc.RepairAssetFromLedger(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("RepairAssetFromLedger: %v", err)
	}
	if !repaired {
		t.Fatal("expected repair to apply the latest event")
	}

	got := mustGet(t, svc, asset.ID)
	if got.CompanyName != "Globex Inc" || got.Branch != "East" || got.Location != "Floor 5" {
		t.Errorf("record = %q/%q/%q, want the ledger destination", got.CompanyName, got.Branch, got.Location)
	}
	if got.Status != models.StatusAssigned || got.AssignedTo != "Jane Doe" || got.EmployeeID != "E100" {
		t.Errorf("assignment = %q/%q/%q", got.Status, got.AssignedTo, got.EmployeeID)
	}
	if got.AssignedDate == nil || !got.AssignedDate.Equal(event.TransferDate) {
		t.Errorf("assignedDate = %v, want the event's transfer date", got.AssignedDate)
	}
}

func TestRepairAssetNoLedger(t *testing.T) {
	svc, _, _ := newTestService(t)
	asset := mustCreate(t, svc, validCreateInput())

	repaired, err := svc.RepairAssetFromLedger(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("RepairAssetFromLedger: %v", err)
	}
	if repaired {
		t.Error("repair reported work with an empty ledger")
	}
}

func TestRepairSkipsSupersededEvents(t *testing.T) {
	svc, _, clk := newTestService(t)
	asset := mustCreate(t, svc, validCreateInput())

	original, err := svc.TransferAsset(context.Background(), asset.ID, TransferInput{
		ToCompany:  "Globex Inc",
		AssignedTo: "Jane Doe",
		EmployeeID: "E100",
	}, admin)
	if err != nil {
		t.Fatalf("TransferAsset: %v", err)
	}

	clk.Advance(time.Hour)
	if _, err := svc.EditTransfer(context.Background(), original.ID, TransferInput{
		ToCompany: "Globex Industries",
	}, superadmin); err != nil {
		t.Fatalf("EditTransfer: %v", err)
	}

	repaired, err := svc.RepairAssetFromLedger(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("RepairAssetFromLedger: %v", err)
	}
	if !repaired {
		t.Fatal("expected repair")
	}

	got := mustGet(t, svc, asset.ID)
	if got.CompanyName != "Globex Industries" {
		t.Errorf("companyName = %q, repair must use the corrected event", got.CompanyName)
	}
}
