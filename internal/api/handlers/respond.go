package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/agrienhance/farmplot/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// errorResponse is the uniform error payload for every non-2xx answer.
type errorResponse struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validation_errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, fields map[string]string) {
	writeJSON(w, status, errorResponse{
		Timestamp:        time.Now().UTC(),
		Status:           status,
		Error:            http.StatusText(status),
		Message:          message,
		Path:             r.URL.Path,
		ValidationErrors: fields,
	})
}

// writeServiceError translates the service error categories onto HTTP
// statuses. Anything uncategorized is a 500 with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, r, http.StatusBadRequest, vErr.Message, vErr.Fields)
	case errors.Is(err, service.ErrValidation):
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error(), nil)
	default:
		writeError(w, r, http.StatusInternalServerError, "an unexpected error occurred", nil)
	}
}

// pathUUID parses a chi URL parameter as a UUID; ok is false after an error
// response has already been written.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// parsePage reads page/size/sort/order query parameters. The sort value is
// an API field name translated through the handler's whitelist; unknown
// values fall back to the listing's default.
func parsePage(r *http.Request, sortFields map[string]string) domain.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return domain.PageRequest{
		Page: page,
		Size: size,
		Sort: sortFields[q.Get("sort")],
		Desc: strings.EqualFold(q.Get("order"), "desc"),
	}
}

// pageResponse is the envelope for every paged listing.
type pageResponse struct {
	Content       any `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
}

func newPageResponse(content any, page domain.PageRequest, total int) pageResponse {
	page = page.Normalize("")
	totalPages := (total + page.Size - 1) / page.Size
	return pageResponse{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", nil)
		return false
	}
	return true
}
