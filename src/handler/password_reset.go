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
	mailer "ganak-service/src/utils"
)

// ResetStore keeps pending reset codes. Reserve must spend an attempt
// atomically and Consume must hand a reset to at most one caller.
type ResetStore interface {
	Save(ctx context.Context, reset models.PasswordReset) error
	Reserve(ctx context.Context, email string, limit int, now time.Time) (*models.PasswordReset, error)
	Consume(ctx context.Context, email string, now time.Time) (*models.PasswordReset, error)
}

type PasswordResetHandler struct {
	*Handler
	Users  UserStore
	Resets ResetStore
	Mailer mailer.Mailer

	now func() time.Time
}

func NewPasswordResetHandler(h *Handler, users UserStore, resets ResetStore, m mailer.Mailer) *PasswordResetHandler {
	return &PasswordResetHandler{Handler: h, Users: users, Resets: resets, Mailer: m, now: time.Now}
}

// RequestCodeHandler answers identically whether or not the email is registered.
func (h *PasswordResetHandler) RequestCodeHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	logger := h.App.Logger

	var req models.ResetRequest
	if !h.decode(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)

	if _, err := h.Users.FindByEmail(r.Context(), email); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			h.writeJSON(w, http.StatusOK, map[string]string{"message": errors.MsgResetCodeSent})
			logger.Info("Password reset requested for non-existing email: " + email)
			return
		}
		h.storeError(w, err, errors.ErrUserNotFound, "Password reset lookup failed")
		return
	}

	now := h.now()
	secret, code, err := auth.NewResetCode(h.App.ServiceName, email, h.App.OTPTTL, now)
	if err != nil {
		http.Error(w, errors.ErrInternalServer, http.StatusInternalServerError)
		logger.Error("Error generating reset code: " + err.Error())
		return
	}

	reset := models.PasswordReset{
		Email:     email,
		Secret:    secret,
		ExpiresAt: now.Add(h.App.OTPTTL).UTC(),
		CreatedAt: now.UTC(),
	}
	if err := h.Resets.Save(r.Context(), reset); err != nil {
		h.storeError(w, err, errors.ErrUserNotFound, "Failed to store reset code")
		return
	}

	ttl := h.App.OTPTTL
	go func() {
		if err := h.Mailer.SendPasswordResetCode(email, code, ttl); err != nil {
			logger.Error("Failed to send password reset email to: " + email + " " + err.Error())
		} else {
			logger.Info("Password reset email sent to " + email)
		}
	}()

	h.writeJSON(w, http.StatusOK, map[string]string{"message": errors.MsgResetCodeSent})
	logger.Info("Password reset process completed in " + time.Since(startTime).String())
}

func (h *PasswordResetHandler) VerifyCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyResetRequest
	if !h.decode(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)

	if !h.checkCode(w, r, email, req.OTP) {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "One-time code verified"})
}

func (h *PasswordResetHandler) ConfirmResetHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	logger := h.App.Logger

	var req models.ConfirmResetRequest
	if !h.decode(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)

	if !h.checkCode(w, r, email, req.OTP) {
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		http.Error(w, errors.ErrInternalServer, http.StatusInternalServerError)
		logger.Error("Failed to hash new password: " + err.Error())
		return
	}

	// Only the request that consumes the code may change the password
	if _, err := h.Resets.Consume(r.Context(), email, h.now()); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			http.Error(w, errors.ErrInvalidOTP, http.StatusBadRequest)
			return
		}
		h.storeError(w, err, errors.ErrInvalidOTP, "Failed to consume reset code")
		return
	}

	if err := h.Users.UpdatePassword(r.Context(), email, hash); err != nil {
		h.storeError(w, err, errors.ErrUserNotFound, "Failed to update password")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
	logger.Info("Password reset successfully for " + email + " in " + time.Since(startTime).String())
}

// checkCode spends one attempt on the pending reset and then validates the
// code. A check that uses the last attempt and fails answers 429.
func (h *PasswordResetHandler) checkCode(w http.ResponseWriter, r *http.Request, email, code string) bool {
	logger := h.App.Logger
	now := h.now()
	limit := h.App.OTPMaxAttempts

	reset, err := h.Resets.Reserve(r.Context(), email, limit, now)
	switch {
	case stderrors.Is(err, repository.ErrAttemptsExhausted):
		http.Error(w, errors.ErrTooManyOTPAttempts, http.StatusTooManyRequests)
		return false
	case stderrors.Is(err, repository.ErrNotFound):
		http.Error(w, errors.ErrInvalidOTP, http.StatusBadRequest)
		return false
	case err != nil:
		h.storeError(w, err, errors.ErrInvalidOTP, "Failed to reserve reset attempt")
		return false
	}

	if !now.Before(reset.ExpiresAt) {
		http.Error(w, errors.ErrInvalidOTP, http.StatusBadRequest)
		return false
	}

	if !auth.ValidateResetCode(reset.Secret, code, h.App.OTPTTL, now) {
		logger.Warn("Invalid reset code attempt for " + email)
		if reset.Attempts >= limit {
			http.Error(w, errors.ErrTooManyOTPAttempts, http.StatusTooManyRequests)
			return false
		}
		http.Error(w, errors.ErrInvalidOTP, http.StatusBadRequest)
		return false
	}
	return true
}
