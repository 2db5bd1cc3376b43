package rest

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"catalog-search/domain"
	"catalog-search/logger"
	"catalog-search/metrics"
	"catalog-search/middleware"
	"catalog-search/usecase"
	"catalog-search/utils"
)

// Handler contains all HTTP handlers for the catalog API
type Handler struct {
	addProduct     *usecase.AddProductUsecase
	searchProducts *usecase.SearchProductsUsecase
	deleteProduct  *usecase.DeleteProductUsecase
	checkHealth    *usecase.CheckHealthUsecase
}

func NewHandler(
	addProduct *usecase.AddProductUsecase,
	searchProducts *usecase.SearchProductsUsecase,
	deleteProduct *usecase.DeleteProductUsecase,
	checkHealth *usecase.CheckHealthUsecase,
) *Handler {
	return &Handler{
		addProduct:     addProduct,
		searchProducts: searchProducts,
		deleteProduct:  deleteProduct,
		checkHealth:    checkHealth,
	}
}

// AddProductRequest is the POST /products body. Every field is optional; a
// missing id is generated.
type AddProductRequest struct {
	ID          string  `json:"id" validate:"max=512"`
	Name        string  `json:"name" validate:"max=1024"`
	Description string  `json:"description" validate:"max=65536"`
	Price       float64 `json:"price"`
	Category    string  `json:"category" validate:"max=256"`
}

type AddProductResponse struct {
	Message string              `json:"message"`
	Result  *domain.IndexResult `json:"result"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

const (
	msgProductAdded   = "Product added"
	msgProductDeleted = "Product deleted"

	errAddFailed    = "Failed to add product"
	errSearchFailed = "Search failed"
	errDeleteFailed = "Failed to delete product"
)

// AddProduct handles POST /products.
func (h *Handler) AddProduct(c echo.Context) error {
	var req AddProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err)
	}

	res, err := h.addProduct.Execute(c.Request().Context(), usecase.AddProductInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		if isClientError(err) {
			return badRequest(c, err)
		}
		return c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: errAddFailed})
	}

	return c.JSON(http.StatusOK, AddProductResponse{
		Message: msgProductAdded,
		Result:  res.Result,
	})
}

// SearchProducts handles GET /products/search?query=&category=.
func (h *Handler) SearchProducts(c echo.Context) error {
	query := c.QueryParam("query")
	category := c.QueryParam("category")

	products, err := h.searchProducts.Execute(c.Request().Context(), query, category)
	if err != nil {
		if isClientError(err) {
			return badRequest(c, err)
		}
		return c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: errSearchFailed})
	}

	return c.JSON(http.StatusOK, products)
}

// DeleteProduct handles DELETE /products/:id.
func (h *Handler) DeleteProduct(c echo.Context) error {
	id, err := productIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id").SetInternal(err)
	}

	if err := h.deleteProduct.Execute(c.Request().Context(), id); err != nil {
		if isClientError(err) {
			return badRequest(c, err)
		}
		return c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: errDeleteFailed})
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: msgProductDeleted})
}

// Health handles GET /health. It reports 503 while the engine is unreachable.
func (h *Handler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.checkHealth.Execute(ctx); err != nil {
		metrics.SetEngineUp(false)
		if !errors.Is(err, context.Canceled) {
			logger.GlobalContext.WithContext(ctx).Warn("health check failed", "error", err)
		}
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
	}

	metrics.SetEngineUp(true)
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// productIDParam returns the decoded :id segment. echo routes on the raw path
// whenever the request carries escapes the default encoding would not produce
// (such as %2F), and its params are then still escaped.
func productIDParam(c echo.Context) (string, error) {
	id := c.Param("id")
	if c.Request().URL.RawPath == "" {
		return id, nil
	}
	return url.PathUnescape(id)
}

func isClientError(err error) bool {
	var vErr *domain.ValidationError
	var secErr *utils.SecurityError
	var fErr FieldErrors
	return errors.As(err, &vErr) ||
		errors.As(err, &secErr) ||
		errors.As(err, &fErr) ||
		errors.Is(err, domain.ErrEmptyProductID)
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
}
