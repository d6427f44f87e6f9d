// handlers/helpers.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/VishalDET/mcflassets-sub000/lifecycle"
	"github.com/VishalDET/mcflassets-sub000/models"
	"github.com/VishalDET/mcflassets-sub000/utils"
	"github.com/VishalDET/mcflassets-sub000/websocket"
)

func actorFromRequest(r *http.Request) models.Actor {
	id, _ := r.Context().Value("userID").(string)
	name, _ := r.Context().Value("userName").(string)
	role, _ := r.Context().Value("userRole").(string)
	return models.Actor{ID: id, Name: name, Role: role}
}

// respondLifecycleError maps the core's error taxonomy onto HTTP statuses.
func respondLifecycleError(w http.ResponseWriter, err error) {
	var ve *lifecycle.ValidationError
	var nf *lifecycle.NotFoundError
	var ae *lifecycle.AuthorizationError
	var se *lifecycle.StorageError

	switch {
	case errors.As(err, &ve):
		utils.RespondWithError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &nf):
		utils.RespondWithError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ae):
		utils.RespondWithError(w, http.StatusForbidden, ae.Error())
	case errors.As(err, &se):
		log.Printf("storage error: %v", se)
		utils.RespondWithError(w, http.StatusInternalServerError, "database operation failed")
	default:
		log.Printf("unexpected error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeAudit records who did what. Audit failures are logged, never fatal.
func writeAudit(ctx context.Context, actor models.Actor, action, entityType, entityID string, details bson.M) {
	audit := models.AuditLog{
		UserID:     actor.ID,
		UserName:   actor.Name,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}
	id, err := db.Insert(ctx, auditCollection, audit)
	if err != nil {
		log.Printf("Failed to create audit log: %v", err)
		return
	}
	audit.ID = id
	websocket.SendAudit(audit)
}
