// Package dynamodb implements the persistence ports on DynamoDB for the
// Lambda deployment. Element records are one item per element keyed by
// kind+id; the timeline document is a single item, matching the engine's
// whole-document unit of atomicity.
package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"

	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"
	pkgerrors "atlas-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// elementItem is the stored shape: identity keys plus the element document
// serialized whole, since its attribute set is open-ended.
type elementItem struct {
	Kind    string `dynamodbav:"kind"`
	ID      string `dynamodbav:"id"`
	Payload string `dynamodbav:"payload"`
}

// ElementStore is the DynamoDB-backed element repository
type ElementStore struct {
	client *awsdynamodb.Client
	table  string
	logger *zap.Logger
}

// NewElementStore creates a DynamoDB element store
func NewElementStore(client *awsdynamodb.Client, table string, logger *zap.Logger) *ElementStore {
	return &ElementStore{client: client, table: table, logger: logger}
}

// GetAll retrieves every element of a kind
func (s *ElementStore) GetAll(ctx context.Context, kind valueobjects.ElementKind) ([]*entities.Element, error) {
	keyCond := expression.Key("kind").Equal(expression.Value(kind.String()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewStoreIOError("build element query", err)
	}

	elems := []*entities.Element{}
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &awsdynamodb.QueryInput{
			TableName:                 aws.String(s.table),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, pkgerrors.NewStoreIOError("query elements", err)
		}

		var items []elementItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, pkgerrors.NewStoreIOError("decode element items", err)
		}
		for _, item := range items {
			element, err := decodeElement(item, kind)
			if err != nil {
				return nil, err
			}
			elems = append(elems, element)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return elems, nil
}

// Get retrieves one element, or a not-found error
func (s *ElementStore) Get(ctx context.Context, kind valueobjects.ElementKind, id string) (*entities.Element, error) {
	out, err := s.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       elementKey(kind, id),
	})
	if err != nil {
		return nil, pkgerrors.NewStoreIOError("get element", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("%s %s", kind, id))
	}

	var item elementItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewStoreIOError("decode element item", err)
	}
	return decodeElement(item, kind)
}

// Put persists an element (create or update)
func (s *ElementStore) Put(ctx context.Context, element *entities.Element) error {
	payload, err := json.Marshal(element)
	if err != nil {
		return pkgerrors.NewStoreIOError("encode element", err)
	}

	item, err := attributevalue.MarshalMap(elementItem{
		Kind:    element.Kind.String(),
		ID:      element.ID,
		Payload: string(payload),
	})
	if err != nil {
		return pkgerrors.NewStoreIOError("encode element item", err)
	}

	if _, err := s.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return pkgerrors.NewStoreIOError("put element", err)
	}

	s.logger.Debug("persisted element",
		zap.String("kind", element.Kind.String()),
		zap.String("elementID", element.ID),
	)
	return nil
}

// Delete removes an element
func (s *ElementStore) Delete(ctx context.Context, kind valueobjects.ElementKind, id string) error {
	out, err := s.client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName:    aws.String(s.table),
		Key:          elementKey(kind, id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return pkgerrors.NewStoreIOError("delete element", err)
	}
	if out.Attributes == nil {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("%s %s", kind, id))
	}
	return nil
}

func elementKey(kind valueobjects.ElementKind, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"kind": &types.AttributeValueMemberS{Value: kind.String()},
		"id":   &types.AttributeValueMemberS{Value: id},
	}
}

func decodeElement(item elementItem, kind valueobjects.ElementKind) (*entities.Element, error) {
	var element entities.Element
	if err := json.Unmarshal([]byte(item.Payload), &element); err != nil {
		return nil, pkgerrors.NewStoreIOError("decode element payload", err)
	}
	if element.Kind == "" {
		element.Kind = kind
	}
	return &element, nil
}
