package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	cw "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/larkerlabs/storefront-orderflow/internal/aws"
	"github.com/larkerlabs/storefront-orderflow/internal/orders"
)

const metricNamespace = "Storefront/Orders"

// orderStore is the slice of the orders store the worker needs.
type orderStore interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	MarkPaid(ctx context.Context, orderID string) error
}

// Processor consumes payment confirmation events and flips order state.
type Processor struct {
	orderStore orderStore
	cloudwatch aws.CloudWatchAPI
	nowFunc    func() time.Time
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.Clients, ordersTable string) *Processor {
	return &Processor{
		orderStore: orders.NewStore(clients.DynamoDB, ordersTable),
		cloudwatch: clients.CloudWatch,
		nowFunc:    time.Now,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. After too many attempts the
			// message lands in the DLQ.
			slog.Error("worker error", "err", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg PaymentMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.OrderID == "" {
		return errors.New("confirmation without order_id")
	}

	slog.Info("received payment confirmation", "order_id", msg.OrderID, "user_id", msg.UserID)

	order, err := p.orderStore.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// Confirmed session for an order we never wrote; DLQ for inspection.
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}

	err = p.orderStore.MarkPaid(ctx, msg.OrderID)
	if errors.Is(err, orders.ErrNotPending) {
		// Redelivered confirmation; the flip already happened.
		slog.Info("duplicate confirmation", "order_id", msg.OrderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	p.recordConfirmation(ctx)

	slog.Info("order marked paid", "order_id", msg.OrderID)
	return nil
}

// recordConfirmation emits the OrdersConfirmed metric. Metric delivery is
// best effort; a failure here must not requeue a confirmation that already
// landed.
func (p *Processor) recordConfirmation(ctx context.Context) {
	metricName := "OrdersConfirmed"
	namespace := metricNamespace
	now := p.nowFunc().UTC()

	_, err := p.cloudwatch.PutMetricData(ctx, &cw.PutMetricDataInput{
		Namespace: &namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &metricName,
				Timestamp:  &now,
				Value:      float64Ptr(1),
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	})
	if err != nil {
		slog.Warn("failed to emit confirmation metric", "err", err)
	}
}

func float64Ptr(v float64) *float64 { return &v }
