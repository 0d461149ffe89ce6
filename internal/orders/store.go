package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/larkerlabs/storefront-orderflow/internal/aws"
)

// ErrNotPending indicates MarkPaid found the order already paid (or absent).
var ErrNotPending = errors.New("order is not in pending state")

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
	idFunc    func() string
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
		idFunc:    uuid.NewString,
	}
}

// Create persists a new pending order and returns it with the assigned id
// and timestamps. The guard on order_id keeps an id collision from silently
// overwriting an existing row.
func (s *Store) Create(ctx context.Context, userID string, productIDs []string) (*Order, error) {
	now := s.nowFunc().UTC()
	order := Order{
		OrderID:   s.idFunc(),
		UserID:    userID,
		Products:  productIDs,
		IsPaid:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if order.Products == nil {
		order.Products = []string{}
	}

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("put order: %w", err)
	}

	return &order, nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	key := map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// MarkPaid conditionally flips is_paid from false to true.
// Returns ErrNotPending if the flag was already set, so a redelivered
// confirmation can be told apart from a store failure.
func (s *Store) MarkPaid(ctx context.Context, orderID string) error {
	now := s.nowFunc().UTC()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression: awsString("SET is_paid = :paid, updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":paid":    &types.AttributeValueMemberBOOL{Value: true},
			":ua":      &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":pending": &types.AttributeValueMemberBOOL{Value: false},
		},
		ConditionExpression: awsString("is_paid = :pending"),
	}

	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrNotPending
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
