package dynamo

import (
	"context"
	"errors"
	"sort"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo guarda items por id y responde Query sobre el GSI de owner
// en páginas de pageSize para ejercitar LastEvaluatedKey.
type mockDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int
	queries  int
	failWith error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		items:    map[string]map[string]types.AttributeValue{},
		pageSize: 2,
	}
}

func strAttr(item map[string]types.AttributeValue, name string) string {
	v, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return v.Value
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	id := strAttr(params.Item, "id")
	if id == "" {
		return nil, errors.New("no primary key in put item")
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(id)" {
		if _, exists := m.items[id]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[id] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	item, ok := m.items[strAttr(params.Key, "id")]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	id := strAttr(params.Key, "id")
	item, ok := m.items[id]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	updated := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		updated[k] = v
	}
	updated["status"] = params.ExpressionAttributeValues[":status"]
	m.items[id] = updated
	return &dyn.UpdateItemOutput{Attributes: updated}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	if m.failWith != nil {
		return nil, m.failWith
	}

	owner := strAttr(params.ExpressionAttributeValues, ":owner")
	from := strAttr(params.ExpressionAttributeValues, ":from")
	to := strAttr(params.ExpressionAttributeValues, ":to")

	matched := make([]map[string]types.AttributeValue, 0)
	for _, item := range m.items {
		created := strAttr(item, "created_at")
		if strAttr(item, "owner_ref") != owner {
			continue
		}
		if from != "" && created < from {
			continue
		}
		if to != "" && created > to {
			continue
		}
		matched = append(matched, item)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := strAttr(matched[i], "created_at"), strAttr(matched[j], "created_at")
		if params.ScanIndexForward != nil && !*params.ScanIndexForward {
			return a > b
		}
		return a < b
	})

	start := 0
	if params.ExclusiveStartKey != nil {
		last := strAttr(params.ExclusiveStartKey, "id")
		for i, item := range matched {
			if strAttr(item, "id") == last {
				start = i + 1
				break
			}
		}
	}
	end := min(start+m.pageSize, len(matched))

	out := &dyn.QueryOutput{Items: matched[start:end]}
	if end < len(matched) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"id": matched[end-1]["id"],
		}
	}
	return out, nil
}
