package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"skillshare-api/models"
	"skillshare-api/store"
	"skillshare-api/utils"
)

// UserController handles user-related requests
type UserController struct {
	base
	Users store.UserStore
}

// NewUserController creates a new UserController
func NewUserController(users store.UserStore, logger *zap.Logger, timeout time.Duration) *UserController {
	return &UserController{base: newBase(logger, timeout), Users: users}
}

// ListUsers returns every user (admin only)
func (uc *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := uc.context(r)
	defer cancel()

	users, err := uc.Users.List(ctx)
	if err != nil {
		uc.fail(w, r, "Error fetching users", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

// GetProfile returns the user with the given email
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := uc.context(r)
	defer cancel()

	user, err := uc.Users.FindByEmail(ctx, mux.Vars(r)["email"])
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		uc.fail(w, r, "Error fetching user", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

// CheckAdmin answers {"admin": bool} for the caller's own email
func (uc *UserController) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	uc.checkRole(w, r, models.RoleAdmin)
}

// CheckTeacher answers {"teacher": bool} for the caller's own email
func (uc *UserController) CheckTeacher(w http.ResponseWriter, r *http.Request) {
	uc.checkRole(w, r, models.RoleTeacher)
}

func (uc *UserController) checkRole(w http.ResponseWriter, r *http.Request, role string) {
	ctx, cancel := uc.context(r)
	defer cancel()

	has := false
	user, err := uc.Users.FindByEmail(ctx, mux.Vars(r)["email"])
	switch {
	case err == nil:
		has = user.Role == role
	case !errors.Is(err, store.ErrNotFound):
		uc.fail(w, r, "Error fetching user", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{role: has})
}

// CreateUser registers a user once per email; repeats are acknowledged without a write
func (uc *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decode(w, r, &user) {
		return
	}
	user.ID = primitive.NilObjectID
	if user.Role == "" {
		user.Role = models.RoleStudent
	}

	ctx, cancel := uc.context(r)
	defer cancel()

	result, created, err := uc.Users.InsertIfAbsent(ctx, &user)
	if err != nil {
		uc.fail(w, r, "Error creating user", err)
		return
	}
	if !created {
		utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message":    "user already exists",
			"insertedId": nil,
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// MakeAdmin promotes the user with the given id to admin
func (uc *UserController) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := uc.context(r)
	defer cancel()

	result, err := uc.Users.SetRole(ctx, id, models.RoleAdmin)
	if err != nil {
		uc.fail(w, r, "Error updating user", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// DeleteUser removes the user with the given id
func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := uc.context(r)
	defer cancel()

	result, err := uc.Users.Delete(ctx, id)
	if err != nil {
		uc.fail(w, r, "Error deleting user", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
