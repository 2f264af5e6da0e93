package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"ganak-service/src/auth"
	errors "ganak-service/src/error"
	"ganak-service/src/models"
	"ganak-service/src/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, req models.UpdateUserRequest) (*models.User, error)
	UpdatePassword(ctx context.Context, email, hash string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserDataCleaner removes data owned by a user when the account is deleted.
type UserDataCleaner interface {
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type UserHandler struct {
	*Handler
	Users    UserStore
	Cleaners []UserDataCleaner
}

func NewUserHandler(h *Handler, users UserStore, cleaners ...UserDataCleaner) *UserHandler {
	return &UserHandler{Handler: h, Users: users, Cleaners: cleaners}
}

func (h *UserHandler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	logger := h.App.Logger

	var req models.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, errors.ErrInternalServer, http.StatusInternalServerError)
		logger.Error("Failed to hash password: " + err.Error())
		return
	}

	user := &models.User{
		FullName: req.FullName,
		Email:    normalizeEmail(req.Email),
		Password: hash,
		Phone:    req.Phone,
		City:     req.City,
	}
	if err := h.Users.Create(r.Context(), user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			http.Error(w, errors.ErrEmailTaken, http.StatusConflict)
			return
		}
		h.storeError(w, err, errors.ErrUserNotFound, "Failed to insert user")
		return
	}

	h.writeJSON(w, http.StatusCreated, user)
	logger.Info("User registered successfully in " + time.Since(startTime).String())
}

func (h *UserHandler) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.Users.FindByID(r.Context(), userID)
	if err != nil {
		h.storeError(w, err, errors.ErrUserNotFound, "Failed to fetch user")
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	logger := h.App.Logger

	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Empty() {
		http.Error(w, errors.ErrNoFieldsToUpdate, http.StatusBadRequest)
		return
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}

	user, err := h.Users.Update(r.Context(), userID, req)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			http.Error(w, errors.ErrEmailTaken, http.StatusConflict)
			return
		}
		h.storeError(w, err, errors.ErrUserNotFound, "Failed to update user")
		return
	}

	h.writeJSON(w, http.StatusOK, user)
	logger.Info("User updated successfully in " + time.Since(startTime).String())
}

func (h *UserHandler) DeleteCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	logger := h.App.Logger

	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.Users.Delete(r.Context(), userID); err != nil {
		h.storeError(w, err, errors.ErrUserNotFound, "Failed to delete user")
		return
	}

	for _, c := range h.Cleaners {
		if err := c.DeleteByUser(r.Context(), userID); err != nil {
			logger.Error("Failed to delete data of user " + userID.Hex() + ": " + err.Error())
		}
	}

	w.WriteHeader(http.StatusNoContent)
	logger.Info("User deleted successfully in " + time.Since(startTime).String())
}

func (h *UserHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	logger := h.App.Logger

	var req models.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)

	user, err := h.Users.FindByEmail(r.Context(), email)
	if stderrors.Is(err, repository.ErrNotFound) {
		http.Error(w, errors.ErrInvalidCredentials, http.StatusUnauthorized)
		logger.Warn("Login attempt failed: user not found with email " + email)
		return
	}
	if err != nil {
		h.storeError(w, err, errors.ErrUserNotFound, "Login lookup failed")
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		http.Error(w, errors.ErrInvalidCredentials, http.StatusUnauthorized)
		logger.Warn("Invalid password for user: " + email)
		return
	}

	token, err := auth.GenerateToken(user.ID.Hex(), h.App.JWTSecret, h.App.JWTExpiration)
	if err != nil {
		http.Error(w, errors.ErrTokenFailure, http.StatusInternalServerError)
		logger.Error("Failed to sign JWT: " + err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
	logger.Info("✅ User logged in successfully in " + time.Since(startTime).String())
}
