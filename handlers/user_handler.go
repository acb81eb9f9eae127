package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/models"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/services"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	Users *services.UserService
}

func (uh *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: name, email")
		return
	}

	// idempotent on email: a repeat registration returns the existing user
	user, err := uh.Users.GetOrCreateUser(req.Email, req.Name)
	if err != nil {
		log.Printf("Error creating user '%s': %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (uh *UserHandler) LookupUser(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "Missing required query parameter: email")
		return
	}

	user, err := uh.Users.GetUserByEmail(email)
	if err != nil {
		log.Printf("Error looking up user '%s': %v", email, err)
		writeError(w, http.StatusInternalServerError, "Failed to look up user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (uh *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "user_id")
	userID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var update models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := uh.Users.UpdateUser(uint(userID), update)
	if err != nil {
		log.Printf("Error updating user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
