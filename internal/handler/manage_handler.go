package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shopsifu-discount/internal/auth"
	"shopsifu-discount/internal/model"
	"shopsifu-discount/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ManageHandler handles the admin/shop voucher management endpoints.
type ManageHandler struct {
	service service.VoucherService
	logger  zerolog.Logger
}

// NewManageHandler creates a new voucher management handler.
func NewManageHandler(service service.VoucherService, logger zerolog.Logger) *ManageHandler {
	return &ManageHandler{
		service: service,
		logger:  logger.With().Str("handler", "manage").Logger(),
	}
}

// Create handles POST /manage-discount/discounts requests.
func (h *ManageHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing identity", h.logger)
		return
	}

	var req model.CreateVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	detail, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, "Voucher created", detail)
}

// List handles GET /manage-discount/discounts requests.
func (h *ManageHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing identity", h.logger)
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	result, err := h.service.List(r.Context(), actor, model.ListVouchersQuery{
		Page:        page,
		Limit:       limit,
		CreatedByID: query.Get("createdById"),
		Status:      model.VoucherStatus(query.Get("status")),
		VoucherType: model.VoucherType(query.Get("voucherType")),
	})
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /manage-discount/discounts/{id} requests.
func (h *ManageHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing identity", h.logger)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "invalid voucher id", h.logger)
		return
	}

	detail, err := h.service.GetByID(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, "Voucher retrieved", detail)
}

// Update handles PUT /manage-discount/discounts/{id} requests.
func (h *ManageHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing identity", h.logger)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "invalid voucher id", h.logger)
		return
	}

	var req model.UpdateVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	detail, err := h.service.Update(r.Context(), actor, id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, "Voucher updated", detail)
}

// Delete handles DELETE /manage-discount/discounts/{id} requests.
// Soft-deletes by default; ?hard=true permanently removes the voucher.
func (h *ManageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing identity", h.logger)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "invalid voucher id", h.logger)
		return
	}

	hard := r.URL.Query().Get("hard") == "true"

	if err := h.service.Delete(r.Context(), actor, id, hard); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, "Voucher deleted", nil)
}
