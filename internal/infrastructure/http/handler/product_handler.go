package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrops-br/bank-products/internal/app/dto"
	"github.com/mrops-br/bank-products/internal/app/service"
	"github.com/mrops-br/bank-products/internal/domain"
	"github.com/mrops-br/bank-products/internal/infrastructure/http/response"
)

// Messages returned to API clients.
const (
	MsgProductNotFound = "Not product found with that identifier"
	MsgProductExists   = "Duplicate identifier found in the database"
	MsgProductRemoved  = "Product removed successfully"
	MsgInvalidBody     = "Invalid body, check the fields of the product"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /bp/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductPayloadList(products))
}

// GetProduct handles GET /bp/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductPayload(*product))
}

// VerifyProduct handles GET /bp/products/verification/{id} with a bare
// JSON boolean
func (h *ProductHandler) VerifyProduct(w http.ResponseWriter, r *http.Request) {
	exists, err := h.service.ProductExists(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, exists)
}

// CreateProduct handles POST /bp/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), payload.ToDomain())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, dto.ToProductPayload(*product))
}

// UpdateProduct handles PUT /bp/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), payload.ToDomain())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductPayload(*product))
}

// DeleteProduct handles DELETE /bp/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.MessageResponse{Message: MsgProductRemoved})
}

func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request) (dto.ProductPayload, bool) {
	var payload dto.ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Message(w, http.StatusBadRequest, MsgInvalidBody)
		return payload, false
	}
	return payload, true
}

func (h *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsNotFound(err):
		response.Message(w, http.StatusNotFound, MsgProductNotFound)
	case errors.Is(err, domain.ErrProductAlreadyExists):
		response.Message(w, http.StatusConflict, MsgProductExists)
	case errors.Is(err, domain.ErrIDMismatch), domain.IsValidationError(err):
		response.Error(w, http.StatusBadRequest, err)
	default:
		h.logger.ErrorContext(r.Context(), "Request failed",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, err)
	}
}
