package products

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// catalogMock serves BatchGetItem from an in-memory product map, keyed by
// product_id. It can hold back the first response's tail as unprocessed keys
// to exercise the drain loop.
type catalogMock struct {
	mu             sync.Mutex
	table          map[string]map[string]types.AttributeValue
	batchCalls     int
	unprocessFirst bool
}

func newCatalogMock(seed ...Product) *catalogMock {
	m := &catalogMock{table: map[string]map[string]types.AttributeValue{}}
	for _, p := range seed {
		item, err := attributevalue.MarshalMap(p)
		if err != nil {
			panic(err)
		}
		m.table[p.ProductID] = item
	}
	return m
}

func (m *catalogMock) BatchGetItem(ctx context.Context, params *dyn.BatchGetItemInput, optFns ...func(*dyn.Options)) (*dyn.BatchGetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++

	out := &dyn.BatchGetItemOutput{
		Responses:       map[string][]map[string]types.AttributeValue{},
		UnprocessedKeys: map[string]types.KeysAndAttributes{},
	}

	for tableName, ka := range params.RequestItems {
		keys := ka.Keys
		if m.unprocessFirst && m.batchCalls == 1 && len(keys) > 1 {
			// hold back everything after the first key
			out.UnprocessedKeys[tableName] = types.KeysAndAttributes{Keys: keys[1:]}
			keys = keys[:1]
		}
		for _, key := range keys {
			idAttr, ok := key["product_id"].(*types.AttributeValueMemberS)
			if !ok {
				return nil, errors.New("missing product_id key")
			}
			if item, ok := m.table[idAttr.Value]; ok {
				out.Responses[tableName] = append(out.Responses[tableName], item)
			}
		}
	}
	return out, nil
}

func (m *catalogMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	return nil, errors.New("not used by products store")
}

func (m *catalogMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	return nil, errors.New("not used by products store")
}

func (m *catalogMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return nil, errors.New("not used by products store")
}
