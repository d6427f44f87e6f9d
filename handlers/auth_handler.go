package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/VishalDET/mcflassets-sub000/models"
	"github.com/VishalDET/mcflassets-sub000/store"
	"github.com/VishalDET/mcflassets-sub000/utils"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var users []models.User
	q := store.Query{Filters: []store.Filter{store.Eq("email", strings.ToLower(req.Email))}, Limit: 1}
	if err := db.Find(ctx, userCollection, q, &users); err != nil {
		log.Printf("user lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	if len(users) == 0 || users[0].DeletedAt != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	user := users[0]
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Name, user.Role)
	if err != nil {
		log.Printf("token generation error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]string{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// ValidateToken confirms the bearer token is still good and echoes its claims.
func ValidateToken(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	claims, err := utils.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"userId": claims.UserID,
		"name":   claims.Name,
		"role":   claims.Role,
	})
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser registers an operator account. Superadmin only.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor.Role != "superadmin" {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to create users")
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields: name, email, password")
		return
	}
	switch req.Role {
	case "superadmin", "admin", "user":
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "role must be superadmin, admin or user")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user := models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := db.Insert(ctx, userCollection, user)
	if err != nil {
		log.Printf("user insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	user.ID = id

	writeAudit(ctx, actor, "user_create", "user", id, nil)
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

func ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var users []models.User
	q := store.Query{OrderBy: "name"}
	if err := db.Find(ctx, userCollection, q, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}
