// Package dynamo guarda las notas en DynamoDB.
//
// Tabla con clave de partición id y un GSI (owner_ref, created_at) para el
// timeline. Los filtros que el GSI no cubre se aplican al leer, con
// notes.ListFilter.Matches.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"contact-notes/internal/domain/notes"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

const OwnerIndex = "owner_ref-created_at-index"

var errAlreadyExists = errors.New("note already exists")

// DynamoDBAPI es el subconjunto del cliente que usa el store.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error)
	GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error)
	Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error)
}

type Store struct {
	client    DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

func NewStore(client DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

func (s *Store) Insert(ctx context.Context, n notes.Note) (notes.Note, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.nowFunc().UTC()
	}

	item, err := attributevalue.MarshalMap(toItem(n))
	if err != nil {
		return notes.Note{}, fmt.Errorf("marshal note: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return notes.Note{}, fmt.Errorf("note %s: %w", n.ID, errAlreadyExists)
		}
		return notes.Note{}, wrapAPIError("put item", err)
	}
	return n, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (notes.Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return notes.Note{}, notes.ErrNotFound
	}

	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return notes.Note{}, wrapAPIError("get item", err)
	}
	if len(out.Item) == 0 {
		return notes.Note{}, notes.ErrNotFound
	}
	return decode(out.Item)
}

// UpdateFields exige que la nota exista; no crea items nuevos.
func (s *Store) UpdateFields(ctx context.Context, id string, f notes.MutableFields) (notes.Note, error) {
	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                &s.tableName,
		Key:                      idKey(id),
		UpdateExpression:         aws.String("SET #s = :status"),
		ConditionExpression:      aws.String("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(f.Status)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return notes.Note{}, fmt.Errorf("note %s: %w", id, notes.ErrNotFound)
		}
		return notes.Note{}, wrapAPIError("update item", err)
	}
	return decode(out.Attributes)
}

// List recorre todas las páginas del GSI para el owner y pagina en memoria.
// TotalCount necesita el conjunto completo filtrado.
func (s *Store) List(ctx context.Context, filter notes.ListFilter, page notes.Page) (notes.ListResult, error) {
	if strings.TrimSpace(filter.OwnerRef) == "" {
		return notes.ListResult{Items: []notes.Note{}}, nil
	}
	// BETWEEN con límites invertidos es ValidationException en DynamoDB
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return notes.ListResult{Items: []notes.Note{}}, nil
	}

	input := s.ownerQuery(filter)
	matched := make([]notes.Note, 0)
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return notes.ListResult{}, wrapAPIError("query", err)
		}
		for _, raw := range out.Items {
			n, err := decode(raw)
			if err != nil {
				return notes.ListResult{}, err
			}
			if filter.Matches(n) {
				matched = append(matched, n)
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	page = page.Normalize()
	start := min(page.Offset(), total)
	end := min(start+page.Size, total)

	return notes.ListResult{Items: matched[start:end], TotalCount: total}, nil
}

func (s *Store) ownerQuery(filter notes.ListFilter) *dyn.QueryInput {
	cond := "owner_ref = :owner"
	values := map[string]types.AttributeValue{
		":owner": &types.AttributeValueMemberS{Value: filter.OwnerRef},
	}

	switch {
	case filter.From != nil && filter.To != nil:
		cond += " AND created_at BETWEEN :from AND :to"
	case filter.From != nil:
		cond += " AND created_at >= :from"
	case filter.To != nil:
		cond += " AND created_at <= :to"
	}
	if filter.From != nil {
		values[":from"] = &types.AttributeValueMemberS{Value: formatTime(*filter.From)}
	}
	if filter.To != nil {
		values[":to"] = &types.AttributeValueMemberS{Value: formatTime(*filter.To)}
	}

	return &dyn.QueryInput{
		TableName:                 &s.tableName,
		IndexName:                 aws.String(OwnerIndex),
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(false),
	}
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func decode(raw map[string]types.AttributeValue) (notes.Note, error) {
	var it noteItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return notes.Note{}, fmt.Errorf("unmarshal note: %w", err)
	}
	return it.toNote()
}

func wrapAPIError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s (%s): %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
