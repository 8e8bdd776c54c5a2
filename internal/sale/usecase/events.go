package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-sale-service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher is satisfied by pkg/broker's kafka producer.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type SaleCommittedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   SaleCommittedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type SaleCommittedPayload struct {
	ID     string              `json:"id"`
	UserID string              `json:"user_id"`
	Total  float64             `json:"total"`
	Items  []SaleCommittedItem `json:"items"`
}

type SaleCommittedItem struct {
	ProductID  string `json:"product_id"`
	Containers int    `json:"containers"`
}

// publishCommitted emits the SaleCommitted event after the transaction
// is durable. Publish failure is logged, never unwinds the sale.
func (uc *saleUseCase) publishCommitted(ctx context.Context, s *model.Sale, plan *model.DemandPlan) {
	if uc.producer == nil {
		return
	}

	items := make([]SaleCommittedItem, len(plan.Lines))
	for i, line := range plan.Lines {
		items[i] = SaleCommittedItem{ProductID: line.ProductID, Containers: line.Containers}
	}

	event := SaleCommittedEvent{
		EventID:   uuid.New().String(),
		EventType: "SaleCommitted",
		Payload: SaleCommittedPayload{
			ID:     s.ID,
			UserID: s.UserID,
			Total:  s.Total,
			Items:  items,
		},
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to marshal SaleCommitted event", zap.Error(err))
		return
	}
	if err := uc.producer.Publish(ctx, s.ID, data); err != nil {
		uc.logger.Error("failed to publish SaleCommitted event",
			zap.String("sale_id", s.ID), zap.Error(err))
	}
}
