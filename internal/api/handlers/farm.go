package handlers

import (
	"net/http"

	"github.com/agrienhance/farmplot/internal/api/middleware"
	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/agrienhance/farmplot/internal/geo"
	"github.com/agrienhance/farmplot/internal/service"
	"github.com/google/uuid"
)

type FarmHandler struct {
	svc *service.FarmService
}

func NewFarmHandler(svc *service.FarmService) *FarmHandler {
	return &FarmHandler{svc: svc}
}

var farmSortFields = map[string]string{
	"farm_name":    "farm_name",
	"country_code": "country_code",
	"created_at":   "created_at",
}

type createFarmRequest struct {
	FarmName         string             `json:"farm_name"`
	OwnerReferenceID uuid.UUID          `json:"owner_reference_id"`
	CountryCode      string             `json:"country_code"`
	Region           *string            `json:"region,omitempty"`
	GeneralLocation  *geo.PointGeometry `json:"general_location,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
}

// updateFarmRequest uses pointers so absent fields stay untouched. Notes is
// the exception: the stored notes become whatever the request carries, so an
// absent notes field clears them.
type updateFarmRequest struct {
	FarmName        *string            `json:"farm_name,omitempty"`
	CountryCode     *string            `json:"country_code,omitempty"`
	Region          *string            `json:"region,omitempty"`
	GeneralLocation *geo.PointGeometry `json:"general_location,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
}

type farmResponse struct {
	*domain.Farm
	GeneralLocation *geo.PointGeometry `json:"general_location,omitempty"`
}

func newFarmResponse(f *domain.Farm) farmResponse {
	return farmResponse{Farm: f, GeneralLocation: geo.EncodePoint(f.GeneralLocation)}
}

func (h *FarmHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req createFarmRequest
	if !decodeBody(w, r, &req) {
		return
	}

	f, err := h.svc.Create(r.Context(), tenant.TenantID, service.CreateFarmInput{
		FarmName:         req.FarmName,
		OwnerReferenceID: req.OwnerReferenceID,
		CountryCode:      req.CountryCode,
		Region:           req.Region,
		GeneralLocation:  geo.DecodePoint(req.GeneralLocation),
		Notes:            req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newFarmResponse(f))
}

func (h *FarmHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	farmID, ok := pathUUID(w, r, "farmID")
	if !ok {
		return
	}

	f, err := h.svc.Get(r.Context(), farmID, tenant.TenantID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newFarmResponse(f))
}

func (h *FarmHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	page := parsePage(r, farmSortFields)
	farms, total, err := h.svc.List(r.Context(), tenant.TenantID, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	content := make([]farmResponse, 0, len(farms))
	for i := range farms {
		content = append(content, newFarmResponse(&farms[i]))
	}
	writeJSON(w, http.StatusOK, newPageResponse(content, page, total))
}

func (h *FarmHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	farmID, ok := pathUUID(w, r, "farmID")
	if !ok {
		return
	}

	var req updateFarmRequest
	if !decodeBody(w, r, &req) {
		return
	}

	f, err := h.svc.Update(r.Context(), farmID, tenant.TenantID, service.UpdateFarmInput{
		FarmName:        req.FarmName,
		CountryCode:     req.CountryCode,
		Region:          req.Region,
		GeneralLocation: geo.DecodePoint(req.GeneralLocation),
		Notes:           req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newFarmResponse(f))
}

func (h *FarmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	farmID, ok := pathUUID(w, r, "farmID")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), farmID, tenant.TenantID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
