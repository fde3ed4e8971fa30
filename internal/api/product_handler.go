package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/offload-api/internal/api/shared"
	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/platform/logger"
)

// ProductService loads and saves catalogue products. *task.Runner implements it.
type ProductService interface {
	GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error)
	SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
}

// SaveProductRequest is the body of POST /products/{id}.
type SaveProductRequest struct {
	Title   string  `json:"title"   validate:"required,max=200"`
	Details string  `json:"details" validate:"max=2000"`
	Price   float64 `json:"price"   validate:"required,gt=0"`
}

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service ProductService, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProductHandler")
	}

	return &ProductHandler{
		service: service,
		logger:  logger.With(slog.String("component", "product_handler")),
	}
}

// GetProduct handles GET /products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handleProductID(w, r, log)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, product)
}

// SaveProduct handles POST /products/{id}. The product is created or replaced.
func (h *ProductHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handleProductID(w, r, log)
	if !ok {
		return
	}

	var req SaveProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	price, err := domain.NewPrice(req.Price)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	product, err := domain.NewProduct(id, req.Title, req.Details, price)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	saved, err := h.service.SaveProduct(r.Context(), product)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	log.Debug("saved product",
		slog.String("product_id", id.String()),
		slog.String("price", price.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, saved)
}
