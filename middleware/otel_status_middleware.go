package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// catalogOperations maps registered routes to the catalog operation they serve.
var catalogOperations = map[string]string{
	http.MethodPost + " /products":       "add_product",
	http.MethodGet + " /products/search": "search_products",
	http.MethodDelete + " /products/:id": "delete_product",
	http.MethodGet + " /health":          "health",
}

// OTelStatusMiddleware annotates the request span with the catalog operation
// and response code. Only 5xx marks the span as Error.
// It must run after otelecho.Middleware, which creates the span.
func OTelStatusMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			span := trace.SpanFromContext(c.Request().Context())
			if !span.SpanContext().IsValid() {
				return err
			}

			status := responseStatus(c, err)
			attrs := []attribute.KeyValue{semconv.HTTPResponseStatusCode(status)}
			if op, ok := catalogOperations[c.Request().Method+" "+c.Path()]; ok {
				attrs = append(attrs, attribute.String("catalog.operation", op))
			}
			span.SetAttributes(attrs...)

			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
				if err != nil {
					span.RecordError(err)
				}
			}

			return err
		}
	}
}

func responseStatus(c echo.Context, err error) int {
	var he *echo.HTTPError
	if err != nil && !c.Response().Committed && errors.As(err, &he) {
		return he.Code
	}
	return c.Response().Status
}
