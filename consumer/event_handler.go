package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"catalog-search/domain"
	"catalog-search/logger"
	"catalog-search/usecase"
)

// Event types understood by ProductEventHandler.
const (
	EventProductUpserted = "ProductUpserted"
	EventProductDeleted  = "ProductDeleted"
)

// ErrUnknownEventType is returned for events this service does not handle.
// Such events are acknowledged and skipped.
var ErrUnknownEventType = errors.New("unknown event type")

// PermanentError marks an event that can never succeed, such as a malformed
// payload. It is acknowledged instead of being redelivered.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return "permanent: " + e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// ProductUpsertedPayload is the product document carried by a
// ProductUpserted event.
type ProductUpsertedPayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

// ProductDeletedPayload is the payload of a ProductDeleted event.
type ProductDeletedPayload struct {
	ID string `json:"id"`
}

// ProductEventHandler applies catalog events through the same usecases as
// the REST API, one event at a time.
type ProductEventHandler struct {
	addProduct    *usecase.AddProductUsecase
	deleteProduct *usecase.DeleteProductUsecase
	logger        *slog.Logger
}

// NewProductEventHandler creates a new ProductEventHandler.
func NewProductEventHandler(addProduct *usecase.AddProductUsecase, deleteProduct *usecase.DeleteProductUsecase, logger *slog.Logger) *ProductEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductEventHandler{
		addProduct:    addProduct,
		deleteProduct: deleteProduct,
		logger:        logger,
	}
}

// HandleEvent processes a single event.
func (h *ProductEventHandler) HandleEvent(ctx context.Context, event Event) error {
	ctx = logger.WithEventID(ctx, event.EventID)

	switch event.EventType {
	case EventProductUpserted:
		return h.handleProductUpserted(ctx, event)
	case EventProductDeleted:
		return h.handleProductDeleted(ctx, event)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventType, event.EventType)
	}
}

func (h *ProductEventHandler) handleProductUpserted(ctx context.Context, event Event) error {
	var payload ProductUpsertedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return &PermanentError{Err: fmt.Errorf("unmarshal %s payload: %w", EventProductUpserted, err)}
	}

	res, err := h.addProduct.Execute(ctx, usecase.AddProductInput{
		ID:          payload.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
	})
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return &PermanentError{Err: err}
		}
		return err
	}

	h.logger.Info("product upserted from event",
		"event_id", event.EventID,
		"product_id", res.Product.ID,
	)
	return nil
}

func (h *ProductEventHandler) handleProductDeleted(ctx context.Context, event Event) error {
	var payload ProductDeletedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return &PermanentError{Err: fmt.Errorf("unmarshal %s payload: %w", EventProductDeleted, err)}
	}

	if err := h.deleteProduct.Execute(ctx, payload.ID); err != nil {
		if errors.Is(err, domain.ErrEmptyProductID) {
			return &PermanentError{Err: err}
		}
		return err
	}

	h.logger.Info("product deleted from event",
		"event_id", event.EventID,
		"product_id", payload.ID,
	)
	return nil
}
