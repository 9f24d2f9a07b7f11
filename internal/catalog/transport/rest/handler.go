// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/abgdnv/catalog/internal/catalog/blob"
	catalogerrors "github.com/abgdnv/catalog/internal/catalog/errors"
	"github.com/abgdnv/catalog/internal/catalog/inventory"
	"github.com/abgdnv/catalog/internal/catalog/service"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Handler serves the products REST API.
type Handler struct {
	service       service.ProductService
	validate      *validator.Validate
	logger        *slog.Logger
	imageMaxBytes int64
}

// NewHandler creates a new instance of Handler with the provided service.
// Image uploads larger than imageMaxBytes are rejected.
func NewHandler(svc service.ProductService, logger *slog.Logger, imageMaxBytes int64) *Handler {
	validate := validator.New()
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validate.RegisterStructValidation(priceScale, service.ProductCreateDto{})
	return &Handler{
		service:       svc,
		validate:      validate,
		logger:        logger.With("component", "rest"),
		imageMaxBytes: imageMaxBytes,
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Get("/random", h.GenerateRandom)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Delete("/", h.DeleteByID)
			r.Get("/image", h.GetImage)
			r.Put("/image", h.UploadImage)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var productCreateDto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&productCreateDto); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "product", productCreateDto)
	if !h.validateBody(w, r, productCreateDto) {
		return
	}

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		switch {
		case errors.Is(err, catalogerrors.ErrDuplicateKey):
			h.logger.WarnContext(r.Context(), "Duplicate UPC", "upc", productCreateDto.UPC)
			web.RespondError(w, h.logger, http.StatusConflict, fmt.Sprintf("Product with UPC %s already exists", productCreateDto.UPC))
		case errors.Is(err, catalogerrors.ErrPublishEvent):
			h.logger.ErrorContext(r.Context(), "Product created without event", "ID", newProduct.ID, "error", err)
			web.RespondError(w, h.logger, http.StatusInternalServerError,
				fmt.Sprintf("Product with ID %d created but the change event was not published", newProduct.ID))
		default:
			h.logger.ErrorContext(r.Context(), "Error creating product", "error", err)
			web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to create product")
		}
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, newProduct)
}

// GenerateRandom returns a synthetic product without storing it.
func (h *Handler) GenerateRandom(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GenerateRandom(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error generating product", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to generate product")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, product)
}

// FindByID retrieves a product by its ID together with its inventory record.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, catalogerrors.ErrProductNotFound):
			h.logger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		case errors.Is(err, inventory.ErrInventoryNotFound):
			h.logger.WarnContext(r.Context(), "Inventory record not found", "ID", id, "error", err)
			web.RespondError(w, h.logger, http.StatusBadGateway, fmt.Sprintf("Inventory for product with ID %d not found", id))
		default:
			h.logger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
			web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		}
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// DeleteByID deletes a product and its saved recommendations.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	deleted, err := h.service.DeleteByID(r.Context(), id)
	if err != nil {
		if deleted && errors.Is(err, catalogerrors.ErrPublishEvent) {
			h.logger.ErrorContext(r.Context(), "Product deleted without event", "ID", id, "error", err)
			web.RespondError(w, h.logger, http.StatusInternalServerError,
				fmt.Sprintf("Product with ID %d deleted but the change event was not published", id))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %d", id))
		return
	}
	if !deleted {
		h.logger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
		web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// GetImage streams the stored image with a sniffed content type.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	data, err := h.service.GetImage(r.Context(), id)
	if err != nil {
		if errors.Is(err, blob.ErrBlobNotFound) {
			web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Image for product with ID %d not found", id))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error retrieving image", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve image for product with ID %d", id))
		return
	}
	web.RespondBytes(w, http.StatusOK, http.DetectContentType(data), data)
}

// UploadImage stores the request body as the product image.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.imageMaxBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			web.RespondError(w, h.logger, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Image exceeds the limit of %d bytes", maxBytesErr.Limit))
			return
		}
		h.logger.WarnContext(r.Context(), "Error reading image body", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(data) == 0 {
		web.RespondError(w, h.logger, http.StatusBadRequest, "Image body is empty")
		return
	}

	if err := h.service.UploadImage(r.Context(), id, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Error uploading image", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to upload image for product with ID %d", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Image uploaded successfully", "ID", id, "bytes", len(data))
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateBody writes a 400 response and returns false when dto fails validation.
func (h *Handler) validateBody(w http.ResponseWriter, r *http.Request, dto any) bool {
	err := h.validate.Struct(dto)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorResponse := make(map[string]string)
		for _, fieldErr := range validationErrors {
			errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
		web.RespondJSON(w, h.logger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
		return false
	}
	h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
	web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
	return false
}

// decimalValue lets numeric rules such as gte apply to decimal.Decimal fields.
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

// priceScale rejects prices with more than two decimal places, which the price column would round.
func priceScale(sl validator.StructLevel) {
	dto := sl.Current().Interface().(service.ProductCreateDto)
	if dto.Price != nil && !dto.Price.Equal(dto.Price.Truncate(2)) {
		sl.ReportError(dto.Price, "Price", "Price", "scale", "")
	}
}
