package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/VishalDET/mcflassets-sub000/lifecycle"
	"github.com/VishalDET/mcflassets-sub000/utils"
)

const maxInvoiceSize = 10 << 20 // 10 MiB

// UploadInvoice attaches a purchase invoice file to an asset. The file goes
// to the S3 bucket; the asset record only keeps a presigned URL.
func UploadInvoice(w http.ResponseWriter, r *http.Request) {
	if invoices == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "invoice storage is not configured")
		return
	}

	actor := actorFromRequest(r)

	assetID := mux.Vars(r)["id"]
	if assetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "asset id required")
		return
	}

	if err := r.ParseMultipartForm(maxInvoiceSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("invoice")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invoice file required")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	// The asset must exist and be outside the bin before uploading.
	if _, err := svc.GetAsset(ctx, assetID); err != nil {
		respondLifecycleError(w, err)
		return
	}

	key, err := invoices.Put(ctx, assetID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Printf("invoice upload error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store invoice")
		return
	}

	url, err := invoices.URL(ctx, key, 7*24*time.Hour)
	if err != nil {
		log.Printf("invoice presign error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to link invoice")
		return
	}

	if err := svc.EditAsset(ctx, assetID, lifecycle.AssetPatch{InvoiceURL: &url}, actor); err != nil {
		respondLifecycleError(w, err)
		return
	}

	writeAudit(ctx, actor, "invoice_upload", "asset", assetID, bson.M{"key": key})
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"invoiceUrl": url})
}
