package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/VishalDET/mcflassets-sub000/utils"
)

// ListDeletedAssets returns the recycle bin contents.
func ListDeletedAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assets, err := svc.ListDeletedAssets(ctx)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assets)
}

func RestoreAsset(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	assetID := mux.Vars(r)["id"]
	if assetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "asset id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := svc.Restore(ctx, assetID); err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "asset_restore", "asset", assetID, nil)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "asset restored"})
}

// PermanentlyDeleteAsset removes the record for good. The transfer ledger
// keeps its events.
func PermanentlyDeleteAsset(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	assetID := mux.Vars(r)["id"]
	if assetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "asset id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := svc.PermanentlyDelete(ctx, assetID); err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "asset_purge", "asset", assetID, nil)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "asset permanently deleted"})
}

func BulkRestoreAssets(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	ids, ok := decodeBulkRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := svc.BulkRestore(ctx, ids)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "asset_bulk_restore", "asset", "", bson.M{
		"requested": len(ids),
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
	})
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func BulkPurgeAssets(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	ids, ok := decodeBulkRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := svc.BulkPermanentlyDelete(ctx, ids)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "asset_bulk_purge", "asset", "", bson.M{
		"requested": len(ids),
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
	})
	utils.RespondWithJSON(w, http.StatusOK, result)
}
