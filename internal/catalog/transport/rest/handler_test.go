package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/catalog/internal/catalog/blob"
	catalogerrors "github.com/abgdnv/catalog/internal/catalog/errors"
	"github.com/abgdnv/catalog/internal/catalog/inventory"
	"github.com/abgdnv/catalog/internal/catalog/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductService is a mock implementation of the ProductService interface
type mockProductService struct {
	product  *service.ProductDto
	details  *service.ProductDetailsDto
	products []service.ProductDto
	random   *service.ProductCreateDto
	image    []byte
	deleted  bool
	error    error

	created  *service.ProductCreateDto
	uploaded []byte
}

func (m *mockProductService) FindAll(_ context.Context) ([]service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.products, nil
}

func (m *mockProductService) Create(_ context.Context, p service.ProductCreateDto) (*service.ProductDto, error) {
	m.created = &p
	return m.product, m.error
}

func (m *mockProductService) FindByID(_ context.Context, _ int64) (*service.ProductDetailsDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.details, nil
}

func (m *mockProductService) GetImage(_ context.Context, _ int64) ([]byte, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.image, nil
}

func (m *mockProductService) UploadImage(_ context.Context, _ int64, data []byte) error {
	m.uploaded = data
	return m.error
}

func (m *mockProductService) DeleteByID(_ context.Context, _ int64) (bool, error) {
	return m.deleted, m.error
}

func (m *mockProductService) GenerateRandom(_ context.Context) (*service.ProductCreateDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.random, nil
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	ValidationErrors map[string]string `json:"validation_errors"`
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func newRouter(svc service.ProductService) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(svc, slog.Default(), 16).RegisterRoutes(r)
	return r
}

func serve(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func widgetDto() service.ProductDto {
	price := decimal.RequireFromString("9.99")
	return service.ProductDto{ID: 1, Name: "Widget", UPC: "111", Price: &price}
}

func Test_Handler_FindAll(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - products found",
			mockService:  &mockProductService{products: []service.ProductDto{widgetDto()}},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":1,"name":"Widget","description":null,"category":null,"upc":"111","price":"9.99","has_image":false}]`,
		},
		{
			name:         "Success - no products",
			mockService:  &mockProductService{products: []service.ProductDto{}},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to fetch products"}),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(newRouter(tc.mockService), http.MethodGet, "/api/v1/products", nil)

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_Handler_Create(t *testing.T) {
	product := widgetDto()
	testCases := []struct {
		name         string
		mockService  *mockProductService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product created",
			mockService:  &mockProductService{product: &product},
			body:         `{"name":"Widget","upc":"111","price":"9.99"}`,
			expectedCode: http.StatusCreated,
			expectedBody: toJSON(t, product),
		},
		{
			name:         "Success - numeric price",
			mockService:  &mockProductService{product: &product},
			body:         `{"name":"Widget","upc":"111","price":9.99}`,
			expectedCode: http.StatusCreated,
			expectedBody: toJSON(t, product),
		},
		{
			name:         "Error - duplicate UPC",
			mockService:  &mockProductService{error: catalogerrors.ErrDuplicateKey},
			body:         `{"name":"Widget","upc":"111"}`,
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with UPC 111 already exists"}),
		},
		{
			name:         "Error - event not published",
			mockService:  &mockProductService{product: &product, error: fmt.Errorf("%w: broker down", catalogerrors.ErrPublishEvent)},
			body:         `{"name":"Widget","upc":"111"}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID 1 created but the change event was not published"}),
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("db down")},
			body:         `{"name":"Widget","upc":"111"}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to create product"}),
		},
		{
			name:         "Error - invalid body",
			mockService:  &mockProductService{},
			body:         `{"name":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid request body"}),
		},
		{
			name:         "Error - validation",
			mockService:  &mockProductService{},
			body:         `{"price":"-1"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{ValidationErrors: map[string]string{
				"Name":  "failed on rule: required",
				"UPC":   "failed on rule: required",
				"Price": "failed on rule: gte",
			}}),
		},
		{
			name:         "Error - price above column range",
			mockService:  &mockProductService{},
			body:         `{"name":"Widget","upc":"111","price":"100000000000"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{ValidationErrors: map[string]string{
				"Price": "failed on rule: lte",
			}}),
		},
		{
			name:         "Error - price with sub-cent digits",
			mockService:  &mockProductService{},
			body:         `{"name":"Widget","upc":"111","price":"9.999"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{ValidationErrors: map[string]string{
				"Price": "failed on rule: scale",
			}}),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(newRouter(tc.mockService), http.MethodPost, "/api/v1/products", []byte(tc.body))

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_Handler_Create_PriceBounds(t *testing.T) {
	testCases := []struct {
		name      string
		price     string
		forwarded bool
	}{
		{name: "largest storable price", price: "9999999999.99", forwarded: true},
		{name: "trailing zeros", price: "9.990", forwarded: true},
		{name: "overflows column", price: "100000000000.999", forwarded: false},
		{name: "sub-cent digits", price: "0.001", forwarded: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			product := widgetDto()
			mockService := &mockProductService{product: &product}
			body := `{"name":"Widget","upc":"111","price":"` + tc.price + `"}`

			// when
			rr := serve(newRouter(mockService), http.MethodPost, "/api/v1/products", []byte(body))

			// then
			if tc.forwarded {
				assert.Equal(t, http.StatusCreated, rr.Code)
				require.NotNil(t, mockService.created)
				assert.True(t, decimal.RequireFromString(tc.price).Equal(*mockService.created.Price))
				return
			}
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Nil(t, mockService.created, "invalid price must not reach the service")
		})
	}
}

func Test_Handler_FindByID(t *testing.T) {
	details := &service.ProductDetailsDto{ProductDto: widgetDto(), Inventory: json.RawMessage(`{"quantity":5}`)}
	testCases := []struct {
		name         string
		mockService  *mockProductService
		productID    string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product found",
			mockService:  &mockProductService{details: details},
			productID:    "1",
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"name":"Widget","description":null,"category":null,"upc":"111","price":"9.99","has_image":false,"inventory":{"quantity":5}}`,
		},
		{
			name:         "Error - invalid id",
			mockService:  &mockProductService{},
			productID:    "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid id: abc"}),
		},
		{
			name:         "Error - product not found",
			mockService:  &mockProductService{error: fmt.Errorf("lookup: %w", catalogerrors.ErrProductNotFound)},
			productID:    "7",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID 7 not found"}),
		},
		{
			name:         "Error - inventory not found",
			mockService:  &mockProductService{error: fmt.Errorf("inventory: %w", inventory.ErrInventoryNotFound)},
			productID:    "7",
			expectedCode: http.StatusBadGateway,
			expectedBody: toJSON(t, ErrorResponse{Error: "Inventory for product with ID 7 not found"}),
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("db down")},
			productID:    "7",
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to retrieve product with ID 7"}),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(newRouter(tc.mockService), http.MethodGet, "/api/v1/products/"+tc.productID, nil)

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_Handler_DeleteByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		expectedCode int
		expectedBody string
	}{
		{name: "Success - deleted", mockService: &mockProductService{deleted: true}, expectedCode: http.StatusNoContent},
		{
			name:         "Error - not found",
			mockService:  &mockProductService{deleted: false},
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID 5 not found"}),
		},
		{
			name:         "Error - transaction failure",
			mockService:  &mockProductService{error: catalogerrors.ErrTransactionCommit},
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to delete product with ID 5"}),
		},
		{
			name:         "Error - event not published",
			mockService:  &mockProductService{deleted: true, error: catalogerrors.ErrPublishEvent},
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID 5 deleted but the change event was not published"}),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(newRouter(tc.mockService), http.MethodDelete, "/api/v1/products/5", nil)

			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedBody == "" {
				assert.Empty(t, rr.Body.String())
				return
			}
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_Handler_Images(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00")

	t.Run("get image", func(t *testing.T) {
		rr := serve(newRouter(&mockProductService{image: png}), http.MethodGet, "/api/v1/products/3/image", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
		assert.Equal(t, png, rr.Body.Bytes())
	})

	t.Run("get missing image", func(t *testing.T) {
		rr := serve(newRouter(&mockProductService{error: blob.ErrBlobNotFound}), http.MethodGet, "/api/v1/products/3/image", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, toJSON(t, ErrorResponse{Error: "Image for product with ID 3 not found"}), rr.Body.String())
	})

	t.Run("upload image", func(t *testing.T) {
		svc := &mockProductService{}

		rr := serve(newRouter(svc), http.MethodPut, "/api/v1/products/3/image", png)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, png, svc.uploaded)
	})

	t.Run("upload too large", func(t *testing.T) {
		svc := &mockProductService{}

		rr := serve(newRouter(svc), http.MethodPut, "/api/v1/products/3/image", []byte(strings.Repeat("x", 17)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		assert.Nil(t, svc.uploaded)
	})

	t.Run("upload empty", func(t *testing.T) {
		rr := serve(newRouter(&mockProductService{}), http.MethodPut, "/api/v1/products/3/image", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("upload failure", func(t *testing.T) {
		rr := serve(newRouter(&mockProductService{error: errors.New("bucket down")}), http.MethodPut, "/api/v1/products/3/image", png)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func Test_Handler_GenerateRandom(t *testing.T) {
	random := &service.ProductCreateDto{Name: "Sleek Oak Lamp", UPC: "036000291452"}

	rr := serve(newRouter(&mockProductService{random: random}), http.MethodGet, "/api/v1/products/random", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"name":"Sleek Oak Lamp","upc":"036000291452"}`, rr.Body.String())
}

func Test_Handler_HealthCheck(t *testing.T) {
	rr := serve(newRouter(&mockProductService{}), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
}
