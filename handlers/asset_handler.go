package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/VishalDET/mcflassets-sub000/lifecycle"
	"github.com/VishalDET/mcflassets-sub000/utils"
)

// ListAssets returns all non-deleted assets, newest first.
func ListAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assets, err := svc.ListActiveAssets(ctx)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assets)
}

func CreateAsset(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	var req lifecycle.CreateAssetInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	asset, err := svc.CreateAsset(ctx, req)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "asset_create", "asset", asset.ID, bson.M{
		"urn":       asset.URN,
		"product":   asset.Product,
		"taggingNo": asset.TaggingNo,
	})

	utils.RespondWithJSON(w, http.StatusCreated, asset)
}

func GetAsset(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["id"]
	if assetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "asset id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	asset, err := svc.GetAsset(ctx, assetID)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

func UpdateAsset(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	assetID := mux.Vars(r)["id"]
	if assetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "asset id required")
		return
	}

	var patch lifecycle.AssetPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := svc.EditAsset(ctx, assetID, patch, actor); err != nil {
		respondLifecycleError(w, err)
		return
	}

	details := bson.M{}
	if patch.Status != nil {
		details["status"] = *patch.Status
	}
	writeAudit(ctx, actor, "asset_update", "asset", assetID, details)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "asset updated successfully"})
}

// DeleteAsset soft-deletes: the asset moves to the recycle bin.
func DeleteAsset(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	assetID := mux.Vars(r)["id"]
	if assetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "asset id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := svc.SoftDelete(ctx, assetID); err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "asset_delete", "asset", assetID, nil)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "asset moved to recycle bin"})
}

// UnassignAsset returns a single asset to stock.
func UnassignAsset(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	assetID := mux.Vars(r)["id"]
	if assetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "asset id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := svc.UnassignAsset(ctx, assetID, actor); err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "asset_unassign", "asset", assetID, nil)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "asset returned to stock"})
}

type bulkRequest struct {
	AssetIDs []string `json:"assetIds"`
}

func decodeBulkRequest(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return nil, false
	}
	if len(req.AssetIDs) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "no asset IDs provided")
		return nil, false
	}
	return req.AssetIDs, true
}

func BulkUnassignAssets(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	ids, ok := decodeBulkRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := svc.BulkUnassign(ctx, ids, actor)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "asset_bulk_unassign", "asset", "", bson.M{
		"requested": len(ids),
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
	})
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func BulkDeleteAssets(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	ids, ok := decodeBulkRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := svc.BulkSoftDelete(ctx, ids, actor)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "asset_bulk_delete", "asset", "", bson.M{
		"requested": len(ids),
		"succeeded": len(result.Succeeded),
		"skipped":   len(result.Skipped),
		"failed":    len(result.Failed),
	})
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// ExportAssets streams the active asset list as CSV.
func ExportAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	assets, err := svc.ListActiveAssets(ctx)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=assets-%s.csv", time.Now().UTC().Format("2006-01-02")))

	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write([]string{
		"URN", "Tagging No", "Product", "Serial Number", "Brand", "Model",
		"Company", "Branch", "Location", "Status", "Assigned To", "Employee ID",
		"Acquired", "Warranty Expiry", "Amount",
	})

	formatDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}
	for _, a := range assets {
		cw.Write([]string{
			a.URN, a.TaggingNo, a.Product, a.ProductSerialNumber, a.BrandName, a.Model,
			a.CompanyName, a.Branch, a.Location, a.Status, a.AssignedTo, a.EmployeeID,
			formatDate(a.DateOfAcquisition), formatDate(a.WarrantyExpiry), a.Amount,
		})
	}
}
