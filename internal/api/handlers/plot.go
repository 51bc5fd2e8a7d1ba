package handlers

import (
	"net/http"
	"time"

	"github.com/agrienhance/farmplot/internal/api/middleware"
	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/agrienhance/farmplot/internal/geo"
	"github.com/agrienhance/farmplot/internal/service"
	"github.com/google/uuid"
)

type PlotHandler struct {
	svc *service.PlotService
}

func NewPlotHandler(svc *service.PlotService) *PlotHandler {
	return &PlotHandler{svc: svc}
}

var plotSortFields = map[string]string{
	"plot_name":  "plot_name",
	"created_at": "created_at",
}

type createPlotRequest struct {
	FarmIdentifier        uuid.UUID            `json:"farm_identifier"`
	PlotName              *string              `json:"plot_name,omitempty"`
	CultivatorReferenceID *uuid.UUID           `json:"cultivator_reference_id,omitempty"`
	PlotGeometry          *geo.PolygonGeometry `json:"plot_geometry"`
}

type updatePlotRequest struct {
	PlotName              *string              `json:"plot_name,omitempty"`
	CultivatorReferenceID *uuid.UUID           `json:"cultivator_reference_id,omitempty"`
	PlotGeometry          *geo.PolygonGeometry `json:"plot_geometry,omitempty"`
}

type plotResponse struct {
	*domain.Plot
	PlotGeometry *geo.PolygonGeometry `json:"plot_geometry,omitempty"`
}

func newPlotResponse(p *domain.Plot) plotResponse {
	return plotResponse{Plot: p, PlotGeometry: geo.EncodePolygon(p.Geometry)}
}

func (h *PlotHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req createPlotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.svc.Create(r.Context(), tenant.TenantID, service.CreatePlotInput{
		FarmIdentifier:        req.FarmIdentifier,
		PlotName:              req.PlotName,
		CultivatorReferenceID: req.CultivatorReferenceID,
		Geometry:              geo.DecodePolygon(req.PlotGeometry),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPlotResponse(p))
}

func (h *PlotHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	plotID, ok := pathUUID(w, r, "plotID")
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), plotID, tenant.TenantID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlotResponse(p))
}

// List serves both the tenant-wide listing and the per-farm listing; a farm
// query parameter narrows the scope and 404s when the farm is unknown.
func (h *PlotHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	page := parsePage(r, plotSortFields)

	var (
		plots []domain.Plot
		total int
		err   error
	)
	if farmParam := r.URL.Query().Get("farm"); farmParam != "" {
		farmID, parseErr := uuid.Parse(farmParam)
		if parseErr != nil {
			writeError(w, r, http.StatusBadRequest, "invalid farm", nil)
			return
		}
		plots, total, err = h.svc.ListByFarm(r.Context(), farmID, tenant.TenantID, page)
	} else {
		plots, total, err = h.svc.List(r.Context(), tenant.TenantID, page)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	content := make([]plotResponse, 0, len(plots))
	for i := range plots {
		content = append(content, newPlotResponse(&plots[i]))
	}
	writeJSON(w, http.StatusOK, newPageResponse(content, page, total))
}

func (h *PlotHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	plotID, ok := pathUUID(w, r, "plotID")
	if !ok {
		return
	}

	var req updatePlotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.svc.Update(r.Context(), plotID, tenant.TenantID, service.UpdatePlotInput{
		PlotName:              req.PlotName,
		CultivatorReferenceID: req.CultivatorReferenceID,
		Geometry:              geo.DecodePolygon(req.PlotGeometry),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlotResponse(p))
}

func (h *PlotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	plotID, ok := pathUUID(w, r, "plotID")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), plotID, tenant.TenantID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type upsertLandTenureRequest struct {
	TenureType                 string     `json:"tenure_type"`
	LeaseStartDate             *time.Time `json:"lease_start_date,omitempty"`
	LeaseEndDate               *time.Time `json:"lease_end_date,omitempty"`
	OwnerDetails               *string    `json:"owner_details,omitempty"`
	AgreementDocumentReference *string    `json:"agreement_document_reference,omitempty"`
}

func (h *PlotHandler) UpsertTenure(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	plotID, ok := pathUUID(w, r, "plotID")
	if !ok {
		return
	}

	var req upsertLandTenureRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lt, err := h.svc.UpsertTenure(r.Context(), plotID, tenant.TenantID, service.UpsertLandTenureInput{
		TenureType:                 domain.ParseLandTenureType(req.TenureType),
		LeaseStartDate:             req.LeaseStartDate,
		LeaseEndDate:               req.LeaseEndDate,
		OwnerDetails:               req.OwnerDetails,
		AgreementDocumentReference: req.AgreementDocumentReference,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lt)
}

func (h *PlotHandler) GetTenure(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	plotID, ok := pathUUID(w, r, "plotID")
	if !ok {
		return
	}

	lt, err := h.svc.GetTenure(r.Context(), plotID, tenant.TenantID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lt)
}

func (h *PlotHandler) DeleteTenure(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	plotID, ok := pathUUID(w, r, "plotID")
	if !ok {
		return
	}

	if err := h.svc.DeleteTenure(r.Context(), plotID, tenant.TenantID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
