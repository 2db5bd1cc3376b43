package rest

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires the catalog API onto e.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/products", h.AddProduct)
	e.GET("/products/search", h.SearchProducts)
	e.DELETE("/products/:id", h.DeleteProduct)

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
