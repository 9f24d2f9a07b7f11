// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	catalogerrors "github.com/abgdnv/catalog/internal/catalog/errors"
	"github.com/abgdnv/catalog/internal/catalog/store"
	"github.com/abgdnv/catalog/internal/catalog/store/db"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// ProductService defines the methods for managing products.
type ProductService interface {
	// FindAll returns all products ordered by ascending id.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create adds a new product and publishes product_created.
	// Returns ErrDuplicateKey if a product with the same UPC exists.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// FindByID retrieves a product together with its inventory record.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDetailsDto, error)

	// GetImage returns the stored image bytes.
	// Returns blob.ErrBlobNotFound if no image was uploaded.
	GetImage(ctx context.Context, id int64) ([]byte, error)

	// UploadImage stores the image and marks the product as having one.
	UploadImage(ctx context.Context, id int64, data []byte) error

	// DeleteByID removes a product with its saved recommendations and publishes product_deleted.
	// Returns false if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// GenerateRandom returns a synthetic product. Nothing is stored.
	GenerateRandom(ctx context.Context) (*ProductCreateDto, error)
}

// InventoryLookup returns the inventory record of a UPC as raw JSON.
type InventoryLookup interface {
	Get(ctx context.Context, upc string) (json.RawMessage, error)
}

// BlobStore keeps image payloads keyed by product id.
type BlobStore interface {
	Put(ctx context.Context, key int64, data []byte) error
	Get(ctx context.Context, key int64) ([]byte, error)
}

// ProductGenerator builds synthetic products.
type ProductGenerator interface {
	Generate() ProductCreateDto
}

// Service implements ProductService.
type Service struct {
	repository     store.ProductStore
	inventory      InventoryLookup
	blobs          BlobStore
	publisher      messaging.Publisher
	generator      ProductGenerator
	createdCounter metric.Int64Counter
	deletedCounter metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided collaborators.
func NewService(repo store.ProductStore, inventory InventoryLookup, blobs BlobStore, publisher messaging.Publisher, generator ProductGenerator) *Service {
	meter := otel.Meter("catalog-service")
	createdCounter, err := meter.Int64Counter("products_created", metric.WithDescription("Total number of created products"))
	if err != nil {
		panic(fmt.Sprintf("failed to create products_created counter: %v", err))
	}
	deletedCounter, err := meter.Int64Counter("products_deleted", metric.WithDescription("Total number of deleted products"))
	if err != nil {
		panic(fmt.Sprintf("failed to create products_deleted counter: %v", err))
	}
	return &Service{
		repository:     repo,
		inventory:      inventory,
		blobs:          blobs,
		publisher:      publisher,
		generator:      generator,
		createdCounter: createdCounter,
		deletedCounter: deletedCounter,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Price bounds follow the NUMERIC(12,2) column.
type ProductCreateDto struct {
	Name        string           `json:"name"                  validate:"required,max=255"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category    *string          `json:"category,omitempty"    validate:"omitempty,max=255"`
	UPC         string           `json:"upc"                   validate:"required,max=64"`
	Price       *decimal.Decimal `json:"price,omitempty"       validate:"omitempty,gte=0,lte=9999999999.99"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	UPC         string           `json:"upc"`
	Price       *decimal.Decimal `json:"price"`
	HasImage    bool             `json:"has_image"`
}

// ProductDetailsDto is a product merged with its inventory record.
type ProductDetailsDto struct {
	ProductDto
	Inventory json.RawMessage `json:"inventory"`
}

func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// Create checks the UPC, inserts the product and publishes product_created.
// A publish failure is returned wrapped in ErrPublishEvent; the product stays created.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	_, err := s.repository.FindByUPC(ctx, product.UPC)
	switch {
	case err == nil:
		return nil, catalogerrors.ErrDuplicateKey
	case !errors.Is(err, catalogerrors.ErrProductNotFound):
		return nil, fmt.Errorf("failed to check UPC %s: %w", product.UPC, err)
	}

	created, err := s.repository.Create(ctx, db.CreateParams{
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Upc:         product.UPC,
		Price:       toNullDecimal(product.Price),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.createdCounter.Add(ctx, 1)

	dto := toDto(created)
	event := events.ProductCreatedEvent{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		Category:    dto.Category,
		Price:       dto.Price,
		UPC:         dto.UPC,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ProductCreatedEvent", "id", dto.ID, "error", err)
		return dto, fmt.Errorf("%w: %w", catalogerrors.ErrPublishEvent, err)
	}

	return dto, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDetailsDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}

	record, err := s.inventory.Get(ctx, product.Upc)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory for UPC %s: %w", product.Upc, err)
	}

	return &ProductDetailsDto{ProductDto: *toDto(product), Inventory: record}, nil
}

func (s *Service) GetImage(ctx context.Context, id int64) ([]byte, error) {
	return s.blobs.Get(ctx, id)
}

// UploadImage writes the blob first and sets has_image second. A failed flag update leaves the blob in place.
func (s *Service) UploadImage(ctx context.Context, id int64, data []byte) error {
	if err := s.blobs.Put(ctx, id, data); err != nil {
		return fmt.Errorf("failed to store image for product %d: %w", id, err)
	}
	if err := s.repository.SetHasImage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Image stored but has_image flag not set", "id", id, "error", err)
		return err
	}
	return nil
}

func (s *Service) DeleteByID(ctx context.Context, id int64) (bool, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}

	deleted, err := s.repository.DeleteWithRecommendations(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	if deleted == 0 {
		// removed concurrently between the lookup and the transaction
		return false, nil
	}
	s.deletedCounter.Add(ctx, 1)

	event := events.ProductDeletedEvent{ID: product.ID, Name: product.Name, UPC: product.Upc}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ProductDeletedEvent", "id", id, "error", err)
		return true, fmt.Errorf("%w: %w", catalogerrors.ErrPublishEvent, err)
	}

	return true, nil
}

func (s *Service) GenerateRandom(_ context.Context) (*ProductCreateDto, error) {
	product := s.generator.Generate()
	return &product, nil
}

// toDto converts a db.Product to a ProductDto.
func toDto(product *db.Product) *ProductDto {
	var price *decimal.Decimal
	if product.Price.Valid {
		p := product.Price.Decimal
		price = &p
	}
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		UPC:         product.Upc,
		Price:       price,
		HasImage:    product.HasImage,
	}
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
