package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"shopsifu-discount/internal/model"
	"shopsifu-discount/internal/service"

	"github.com/rs/zerolog"
)

// DiscountHandler handles the shopper-facing voucher endpoints.
type DiscountHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewDiscountHandler creates a new shopper-facing discount handler.
func NewDiscountHandler(service service.CheckoutService, logger zerolog.Logger) *DiscountHandler {
	return &DiscountHandler{
		service: service,
		logger:  logger.With().Str("handler", "discount").Logger(),
	}
}

// Available handles GET /discounts/available requests.
func (h *DiscountHandler) Available(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "limit must be a positive integer", h.logger)
			return
		}
		limit = parsed
	}

	vouchers, err := h.service.ListAvailable(r.Context(), service.AvailableQuery{
		CartItemIDs:  parseCartItemIDs(query["cartItemIds"]),
		Limit:        limit,
		OnlyShop:     query.Get("onlyShopDiscounts") == "true",
		OnlyPlatform: query.Get("onlyPlatformDiscounts") == "true",
	})
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, "Available vouchers retrieved", vouchers)
}

// ValidateCode handles POST /discounts/validate-code requests.
func (h *DiscountHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	var req model.ValidateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if strings.TrimSpace(req.Code) == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "code is required", h.logger)
		return
	}

	result, err := h.service.ValidateCode(r.Context(), req.Code, req.CartItemIDs)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, "Voucher code checked", result)
}

// parseCartItemIDs accepts both repeated cartItemIds params and a single
// comma-separated value.
func parseCartItemIDs(values []string) []string {
	var ids []string
	for _, value := range values {
		for _, id := range strings.Split(value, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
