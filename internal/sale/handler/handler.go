package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fekuna/omnipos-sale-service/internal/apperrors"
	"github.com/fekuna/omnipos-sale-service/internal/auth"
	"github.com/fekuna/omnipos-sale-service/internal/sale"
	"github.com/fekuna/omnipos-sale-service/internal/sale/dto"
	"github.com/fekuna/omnipos-sale-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SaleHandler struct {
	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{uc: uc, logger: log}
}

func (h *SaleHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sales/validate", h.ValidateBasket)
	r.Post("/sales", h.CommitSale)
}

func (h *SaleHandler) ValidateBasket(w http.ResponseWriter, r *http.Request) {
	var input dto.ValidateBasketInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeErrors(w, apperrors.ErrorList{&apperrors.ValidationError{Field: "body", Reason: "malformed JSON"}})
		return
	}

	plan, err := h.uc.ValidateBasket(r.Context(), &input)
	if err != nil {
		h.writeErrors(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ValidateBasketResponse{DemandPlan: plan})
}

func (h *SaleHandler) CommitSale(w http.ResponseWriter, r *http.Request) {
	var input dto.CommitSaleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeErrors(w, apperrors.ErrorList{&apperrors.ValidationError{Field: "body", Reason: "malformed JSON"}})
		return
	}
	if input.PaymentMethodID == "" {
		h.writeErrors(w, apperrors.ErrorList{&apperrors.ValidationError{Field: "payment_method_id", Reason: "required"}})
		return
	}
	input.UserID = auth.GetUserID(r.Context())

	s, err := h.uc.CommitSale(r.Context(), &input)
	if err != nil {
		h.writeErrors(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SaleResponse{
		ID:    s.ID,
		Items: s.Items,
		Total: s.Total,
	})
}

func (h *SaleHandler) writeErrors(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("sale request failed", zap.Error(err))
	}
	writeJSON(w, status, dto.ErrorResponse{Errors: dto.ErrorEntries(err)})
}

func statusFor(err error) int {
	switch apperrors.Code(err) {
	case apperrors.CodeValidation, apperrors.CodeSelection:
		return http.StatusUnprocessableEntity
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInsufficientStock:
		return http.StatusConflict
	case apperrors.CodeTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
