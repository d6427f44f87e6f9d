package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/VishalDET/mcflassets-sub000/models"
	"github.com/VishalDET/mcflassets-sub000/store"
	"github.com/VishalDET/mcflassets-sub000/utils"
)

// ListAuditLogs returns recent audit entries, newest first. Optional
// ?limit=N caps the result (default 100).
func ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var logs []models.AuditLog
	q := store.Query{OrderBy: "createdAt", Desc: true, Limit: limit}
	if err := db.Find(ctx, auditCollection, q, &logs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	utils.RespondWithJSON(w, http.StatusOK, logs)
}
