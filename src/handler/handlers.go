package handler

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ganak-service/src/auth"
	"ganak-service/src/config"
	"ganak-service/src/database"
	errors "ganak-service/src/error"
	"ganak-service/src/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// Handler carries what every route group needs: configuration and the logger.
type Handler struct {
	App *config.Config
}

// NewHandler creates a new Handler instance
func NewHandler(app *config.Config) *Handler {
	app.Logger.Info("✅ Handler initialized successfully")
	return &Handler{App: app}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.App.Logger.Error("Failed to encode response: " + err.Error())
	}
}

// decode reads a JSON body into dst and validates it. It writes the 400
// response itself and reports whether the handler may continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		http.Error(w, errors.ErrInvalidRequest, http.StatusBadRequest)
		h.App.Logger.Error("Failed to decode request body: " + err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		http.Error(w, errors.ErrInvalidRequest+": "+validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// storeError maps repository and connection failures onto HTTP responses.
func (h *Handler) storeError(w http.ResponseWriter, err error, notFound, action string) {
	switch {
	case stderrors.Is(err, database.ErrUnavailable):
		http.Error(w, errors.ErrDatabaseUnavailable, http.StatusServiceUnavailable)
		h.App.Logger.Error(action + ": " + err.Error())
	case stderrors.Is(err, repository.ErrNotFound):
		http.Error(w, notFound, http.StatusNotFound)
	default:
		http.Error(w, errors.ErrDatabaseQuery, http.StatusInternalServerError)
		h.App.Logger.Error(action + ": " + err.Error())
	}
}

// currentUserID returns the authenticated user's id. Routes that call it are
// mounted behind the Authenticate middleware.
func (h *Handler) currentUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, errors.ErrTokenInvalid, http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		http.Error(w, errors.ErrTokenInvalid, http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, errors.ErrInvalidID, http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
