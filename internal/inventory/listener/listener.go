package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventGoodsReceived = "GoodsReceived"

// MessageReader is the consuming side of the broker.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting Inventory Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Inventory Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type GoodsReceivedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   GoodsReceivedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type GoodsReceivedPayload struct {
	OrderID    string                `json:"order_id"`
	ProviderID string                `json:"provider_id"`
	Items      []ReceivedItemPayload `json:"items"`
}

type ReceivedItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event GoodsReceivedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != EventGoodsReceived {
		return
	}

	l.logger.Info("Processing GoodsReceived event", zap.String("order_id", event.Payload.OrderID))

	input := &dto.ReceiveGoodsInput{OrderID: event.Payload.OrderID}
	for _, item := range event.Payload.Items {
		input.Items = append(input.Items, dto.ReceivedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	applied, err := l.uc.ReceiveGoods(ctx, input)
	if err != nil {
		// already applied items are skipped on redelivery
		l.logger.Error("Failed to apply goods receipt",
			zap.String("order_id", event.Payload.OrderID),
			zap.Int("applied", applied),
			zap.Error(err),
		)
		return
	}
	l.logger.Info("Goods receipt applied", zap.String("order_id", event.Payload.OrderID), zap.Int("items", applied))
}
