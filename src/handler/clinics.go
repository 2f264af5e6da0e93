package handler

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	errors "ganak-service/src/error"
	"ganak-service/src/models"
	"ganak-service/src/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ClinicStore interface {
	Search(ctx context.Context, q models.ClinicQuery) ([]models.Clinic, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Clinic, error)
}

type ClinicHandler struct {
	*Handler
	Clinics ClinicStore
}

func NewClinicHandler(h *Handler, clinics ClinicStore) *ClinicHandler {
	return &ClinicHandler{Handler: h, Clinics: clinics}
}

func (h *ClinicHandler) SearchClinicsHandler(w http.ResponseWriter, r *http.Request) {
	q, err := ParseClinicQuery(r.URL.Query())
	if err != nil {
		http.Error(w, errors.ErrInvalidQuery+": "+err.Error(), http.StatusBadRequest)
		return
	}

	clinics, err := h.Clinics.Search(r.Context(), q)
	if err != nil {
		h.storeError(w, err, errors.ErrClinicNotFound, "Failed to search clinics")
		return
	}
	h.writeJSON(w, http.StatusOK, clinics)
}

func (h *ClinicHandler) GetClinicHandler(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := h.pathID(w, r, "clinicID")
	if !ok {
		return
	}

	clinic, err := h.Clinics.Get(r.Context(), clinicID)
	if err != nil {
		h.storeError(w, err, errors.ErrClinicNotFound, "Failed to fetch clinic")
		return
	}
	h.writeJSON(w, http.StatusOK, clinic)
}

type queryError string

func (e queryError) Error() string { return string(e) }

// ParseClinicQuery reads the lookup parameters. lat and lng must be given
// together; max_distance_km needs a point to measure from.
func ParseClinicQuery(v url.Values) (models.ClinicQuery, error) {
	q := models.ClinicQuery{
		City:      strings.TrimSpace(v.Get("city")),
		Specialty: strings.TrimSpace(v.Get("specialty")),
		Limit:     repository.DefaultClinicLimit,
	}

	latRaw, lngRaw := strings.TrimSpace(v.Get("lat")), strings.TrimSpace(v.Get("lng"))
	switch {
	case latRaw == "" && lngRaw == "":
	case latRaw == "" || lngRaw == "":
		return q, queryError("lat and lng must be provided together")
	default:
		lat, err := parseCoordinate(latRaw, 90)
		if err != nil {
			return q, queryError("lat must be a number between -90 and 90")
		}
		lng, err := parseCoordinate(lngRaw, 180)
		if err != nil {
			return q, queryError("lng must be a number between -180 and 180")
		}
		q.Near = &models.GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
	}

	if raw := strings.TrimSpace(v.Get("max_distance_km")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || d <= 0 || math.IsInf(d, 0) || math.IsNaN(d) {
			return q, queryError("max_distance_km must be a positive number")
		}
		if q.Near == nil {
			return q, queryError("max_distance_km requires lat and lng")
		}
		q.MaxDistanceKM = d
	}

	if raw := strings.TrimSpace(v.Get("limit")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > repository.MaxClinicLimit {
			return q, queryError("limit must be between 1 and " + strconv.Itoa(repository.MaxClinicLimit))
		}
		q.Limit = n
	}
	return q, nil
}

func parseCoordinate(raw string, bound float64) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < -bound || f > bound {
		return 0, queryError("out of range")
	}
	return f, nil
}
