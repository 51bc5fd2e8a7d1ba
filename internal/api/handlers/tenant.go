package handlers

import (
	"net/http"

	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/agrienhance/farmplot/internal/service"
)

type TenantHandler struct {
	svc *service.TenantService
}

func NewTenantHandler(svc *service.TenantService) *TenantHandler {
	return &TenantHandler{svc: svc}
}

type createTenantRequest struct {
	Name string `json:"name"`
}

// createTenantResponse carries the plaintext API key; it is shown here and
// never again.
type createTenantResponse struct {
	*domain.Tenant
	APIKey string `json:"api_key"`
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tenant, apiKey, err := h.svc.Provision(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createTenantResponse{Tenant: tenant, APIKey: apiKey})
}
