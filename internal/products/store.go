package products

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/larkerlabs/storefront-orderflow/internal/aws"
)

// batchGetLimit is the DynamoDB per-request BatchGetItem ceiling.
const batchGetLimit = 100

// Store encapsulates read operations on the products table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore creates a new products Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

// FindByIDs resolves product ids against the catalog. Unknown ids are simply
// absent from the result, never an error. Duplicate ids are collapsed before
// the lookup (DynamoDB rejects duplicate keys in a batch).
func (s *Store) FindByIDs(ctx context.Context, ids []string) ([]Product, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found := make([]Product, 0, len(unique))
	for start := 0; start < len(unique); start += batchGetLimit {
		end := start + batchGetLimit
		if end > len(unique) {
			end = len(unique)
		}
		batch, err := s.batchGet(ctx, unique[start:end])
		if err != nil {
			return nil, err
		}
		found = append(found, batch...)
	}
	return found, nil
}

func (s *Store) batchGet(ctx context.Context, ids []string) ([]Product, error) {
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: id},
		})
	}

	var out []Product
	request := map[string]types.KeysAndAttributes{
		s.tableName: {Keys: keys},
	}

	// DynamoDB may return unprocessed keys under load; loop until drained.
	for len(request) > 0 {
		resp, err := s.client.BatchGetItem(ctx, &dyn.BatchGetItemInput{
			RequestItems: request,
		})
		if err != nil {
			return nil, fmt.Errorf("batch get products: %w", err)
		}

		for _, item := range resp.Responses[s.tableName] {
			var p Product
			if err := attributevalue.UnmarshalMap(item, &p); err != nil {
				return nil, fmt.Errorf("unmarshal product: %w", err)
			}
			out = append(out, p)
		}

		request = resp.UnprocessedKeys
	}

	return out, nil
}

// FilterPayable returns the subset with a provider price reference.
// This is the second, separate drop stage after unknown-id resolution.
func FilterPayable(in []Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		if p.Payable() {
			out = append(out, p)
		}
	}
	return out
}
