package handlers

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/larkerlabs/storefront-orderflow/internal/cart"
	"github.com/larkerlabs/storefront-orderflow/internal/payments"
)

// mockDynamo routes requests to in-memory tables by table name, each with
// its own partition key attribute. Just enough behavior for the routes.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]*mockTable
}

type mockTable struct {
	pk    string
	items map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{tables: map[string]*mockTable{
		"users-table":    {pk: "email", items: map[string]map[string]types.AttributeValue{}},
		"orders-table":   {pk: "order_id", items: map[string]map[string]types.AttributeValue{}},
		"products-table": {pk: "product_id", items: map[string]map[string]types.AttributeValue{}},
	}}
}

func (m *mockDynamo) tableFor(name *string) (*mockTable, error) {
	if name == nil {
		return nil, errors.New("missing table name")
	}
	t, ok := m.tables[*name]
	if !ok {
		return nil, errors.New("unknown table " + *name)
	}
	return t, nil
}

func keyValue(item map[string]types.AttributeValue, pk string) (string, error) {
	attr, ok := item[pk].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing key " + pk)
	}
	return attr.Value, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.tableFor(params.TableName)
	if err != nil {
		return nil, err
	}
	k, err := keyValue(params.Item, t.pk)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil {
		if _, exists := t.items[k]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	t.items[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.tableFor(params.TableName)
	if err != nil {
		return nil, err
	}
	k, err := keyValue(params.Key, t.pk)
	if err != nil {
		return nil, err
	}
	item, ok := t.items[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.tableFor(params.TableName)
	if err != nil {
		return nil, err
	}
	k, err := keyValue(params.Key, t.pk)
	if err != nil {
		return nil, err
	}
	item, ok := t.items[k]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "is_paid = :pending" {
		want := params.ExpressionAttributeValues[":pending"].(*types.AttributeValueMemberBOOL).Value
		cur, ok := item["is_paid"].(*types.AttributeValueMemberBOOL)
		if !ok || cur.Value != want {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	if v, ok := params.ExpressionAttributeValues[":paid"]; ok {
		item["is_paid"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = v
	}
	t.items[k] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) BatchGetItem(ctx context.Context, params *dyn.BatchGetItemInput, optFns ...func(*dyn.Options)) (*dyn.BatchGetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := &dyn.BatchGetItemOutput{Responses: map[string][]map[string]types.AttributeValue{}}
	for tableName, ka := range params.RequestItems {
		name := tableName
		t, err := m.tableFor(&name)
		if err != nil {
			return nil, err
		}
		for _, key := range ka.Keys {
			k, err := keyValue(key, t.pk)
			if err != nil {
				return nil, err
			}
			if item, ok := t.items[k]; ok {
				out.Responses[tableName] = append(out.Responses[tableName], item)
			}
		}
	}
	return out, nil
}

// mockSQS records sent messages.
type mockSQS struct {
	mu     sync.Mutex
	bodies []string
	inputs []*sqs.SendMessageInput
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies = append(m.bodies, *params.MessageBody)
	m.inputs = append(m.inputs, params)
	return &sqs.SendMessageOutput{}, nil
}

// memCartStore is an in-memory cart.Store.
type memCartStore struct {
	mu    sync.Mutex
	carts map[string]*cart.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: map[string]*cart.Cart{}}
}

func (s *memCartStore) Get(ctx context.Context, clientID string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[clientID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memCartStore) Save(ctx context.Context, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.carts[c.ClientID] = &cp
	return nil
}

func (s *memCartStore) Delete(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, clientID)
	return nil
}

// recordingProvider captures the session request and returns a fixed URL.
type recordingProvider struct {
	mu         sync.Mutex
	lastParams *payments.SessionParams
	url        string
	err        error
}

func (p *recordingProvider) CreateSession(ctx context.Context, params payments.SessionParams) (*payments.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastParams = &params
	if p.err != nil {
		return nil, p.err
	}
	return &payments.Session{URL: p.url}, nil
}
