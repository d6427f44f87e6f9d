package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/VishalDET/mcflassets-sub000/lifecycle"
	"github.com/VishalDET/mcflassets-sub000/utils"
	"github.com/VishalDET/mcflassets-sub000/websocket"
)

// TransferAsset moves an asset to a new company/branch/holder. The ledger
// event is written before the record update, so even a half-applied
// transfer is never lost.
func TransferAsset(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	assetID := mux.Vars(r)["id"]
	if assetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "asset id required")
		return
	}

	var req lifecycle.TransferInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	event, err := svc.TransferAsset(ctx, assetID, req, actor)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "asset_transfer", "asset", assetID, bson.M{
		"eventId":    event.ID,
		"toCompany":  event.ToCompany,
		"toBranch":   event.ToBranch,
		"assignedTo": event.AssignedTo,
	})
	websocket.SendAssetTransferred(assetID, event, actor.ID, actor.Name)

	utils.RespondWithJSON(w, http.StatusCreated, event)
}

// EditTransfer corrects a past ledger event. The original event is kept,
// flagged as superseded.
func EditTransfer(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	eventID := mux.Vars(r)["id"]
	if eventID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "transfer event id required")
		return
	}

	var req lifecycle.TransferInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := svc.EditTransfer(ctx, eventID, req, actor)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "transfer_edit", "transfer", eventID, bson.M{
		"newEventId":     result.Event.ID,
		"displayUpdated": result.DisplayUpdated,
	})

	utils.RespondWithJSON(w, http.StatusOK, result)
}

// GetAssetHistory returns the complete transfer trail for an asset,
// superseded events included. Works for permanently deleted assets too.
func GetAssetHistory(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["id"]
	if assetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "asset id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	events, err := svc.History(ctx, assetID)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, events)
}

// RepairAsset re-derives an asset's display state from the latest
// non-superseded ledger event after a half-applied transfer.
func RepairAsset(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	assetID := mux.Vars(r)["id"]
	if assetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "asset id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	repaired, err := svc.RepairAssetFromLedger(ctx, assetID)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	if repaired {
		writeAudit(ctx, actor, "asset_repair", "asset", assetID, nil)
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"repaired": repaired})
}
