package handlers

import (
	"net/http"

	"github.com/agrienhance/farmplot/internal/api/middleware"
	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/agrienhance/farmplot/internal/geo"
	"github.com/agrienhance/farmplot/internal/service"
)

type POIHandler struct {
	svc *service.POIService
}

func NewPOIHandler(svc *service.POIService) *POIHandler {
	return &POIHandler{svc: svc}
}

type createPOIRequest struct {
	POIName     *string            `json:"poi_name,omitempty"`
	POIType     string             `json:"poi_type"`
	Coordinates *geo.PointGeometry `json:"coordinates"`
	Notes       *string            `json:"notes,omitempty"`
}

type updatePOIRequest struct {
	POIName     *string            `json:"poi_name,omitempty"`
	POIType     *string            `json:"poi_type,omitempty"`
	Coordinates *geo.PointGeometry `json:"coordinates,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

type poiResponse struct {
	*domain.PointOfInterest
	Coordinates *geo.PointGeometry `json:"coordinates"`
}

func newPOIResponse(poi *domain.PointOfInterest) poiResponse {
	return poiResponse{PointOfInterest: poi, Coordinates: geo.EncodePoint(&poi.Coordinates)}
}

// CreateUnder serves POST /v1/{farms|plots}/{id}/pois: the parent pair comes
// from the route, never from the body.
func (h *POIHandler) CreateUnder(parentType domain.ParentEntityType, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := middleware.TenantFromContext(r.Context())
		if tenant == nil {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		parentID, ok := pathUUID(w, r, param)
		if !ok {
			return
		}

		var req createPOIRequest
		if !decodeBody(w, r, &req) {
			return
		}

		poi, err := h.svc.Create(r.Context(), tenant.TenantID, service.CreatePOIInput{
			ParentEntityIdentifier: parentID,
			ParentEntityType:       parentType,
			POIName:                req.POIName,
			POIType:                domain.ParsePOIType(req.POIType),
			Coordinates:            geo.DecodePoint(req.Coordinates),
			Notes:                  req.Notes,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, newPOIResponse(poi))
	}
}

// ListUnder serves GET /v1/{farms|plots}/{id}/pois.
func (h *POIHandler) ListUnder(parentType domain.ParentEntityType, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := middleware.TenantFromContext(r.Context())
		if tenant == nil {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		parentID, ok := pathUUID(w, r, param)
		if !ok {
			return
		}

		page := parsePage(r, map[string]string{"created_at": "created_at"})
		pois, total, err := h.svc.ListByParentPaged(r.Context(), parentID, parentType, tenant.TenantID, page)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		content := make([]poiResponse, 0, len(pois))
		for i := range pois {
			content = append(content, newPOIResponse(&pois[i]))
		}
		writeJSON(w, http.StatusOK, newPageResponse(content, page, total))
	}
}

func (h *POIHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	poiID, ok := pathUUID(w, r, "poiID")
	if !ok {
		return
	}

	poi, err := h.svc.Get(r.Context(), poiID, tenant.TenantID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPOIResponse(poi))
}

func (h *POIHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	poiID, ok := pathUUID(w, r, "poiID")
	if !ok {
		return
	}

	var req updatePOIRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in := service.UpdatePOIInput{
		POIName:     req.POIName,
		Coordinates: geo.DecodePoint(req.Coordinates),
		Notes:       req.Notes,
	}
	if req.POIType != nil {
		t := domain.ParsePOIType(*req.POIType)
		in.POIType = &t
	}

	poi, err := h.svc.Update(r.Context(), poiID, tenant.TenantID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPOIResponse(poi))
}

func (h *POIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	poiID, ok := pathUUID(w, r, "poiID")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), poiID, tenant.TenantID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
