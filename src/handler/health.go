package handler

import (
	"context"
	"net/http"
	"time"

	"ganak-service/src/database"
	"ganak-service/src/models"
)

const healthProbeTimeout = 2 * time.Second

type SystemHandler struct {
	*Handler
	Registry *database.Registry
	Docs     func() models.DocsResponse
}

func NewSystemHandler(h *Handler, registry *database.Registry, docs func() models.DocsResponse) *SystemHandler {
	return &SystemHandler{Handler: h, Registry: registry, Docs: docs}
}

// HealthHandler pings every registered connection. It answers 200 even when
// degraded so the process stays in rotation; the body carries the status.
func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	resp := models.HealthResponse{
		Service:   h.App.ServiceName,
		Status:    "ok",
		Databases: []models.ConnectionHealth{},
	}
	conns := h.Registry.All()
	if len(conns) == 0 {
		resp.Status = string(database.StatusDegraded)
	}
	for _, conn := range conns {
		_ = conn.Ping(ctx)
		entry := models.ConnectionHealth{Alias: conn.Alias(), Status: string(conn.Status())}
		if err := conn.Err(); err != nil {
			entry.Error = err.Error()
		}
		if conn.Status() != database.StatusConnected {
			resp.Status = string(database.StatusDegraded)
		}
		resp.Databases = append(resp.Databases, entry)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *SystemHandler) DocsHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Docs())
}
