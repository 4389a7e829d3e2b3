package dynamodb

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	"atlas-backend/domain/core/entities"
	pkgerrors "atlas-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// timelineItemID is the fixed partition key of the single timeline item.
const timelineItemID = "timeline"

type timelineItem struct {
	ID      string `dynamodbav:"id"`
	Version int64  `dynamodbav:"version"`
	Payload string `dynamodbav:"payload"`
}

// TimelineStore persists the whole timeline document as one item. Writes
// carry a conditional version check so two concurrent mutations cannot
// silently clobber each other.
type TimelineStore struct {
	client *awsdynamodb.Client
	table  string
	logger *zap.Logger

	mu sync.Mutex
}

// NewTimelineStore creates a DynamoDB timeline store
func NewTimelineStore(client *awsdynamodb.Client, table string, logger *zap.Logger) *TimelineStore {
	return &TimelineStore{client: client, table: table, logger: logger}
}

// Load fetches the current timeline document. A missing item yields an
// empty document so a fresh deployment needs no seeding step.
func (s *TimelineStore) Load(ctx context.Context) (*entities.TimelineDocument, error) {
	doc, _, err := s.load(ctx)
	return doc, err
}

// Update applies mutate to a copy of the stored document and writes it
// back in one conditional put. Concurrent writers on this process are
// serialized; a version conflict from another writer is a conflict error.
func (s *TimelineStore) Update(ctx context.Context, mutate func(*entities.TimelineDocument) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, version, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := mutate(doc); err != nil {
		return err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return pkgerrors.NewStoreIOError("encode timeline", err)
	}
	item, err := attributevalue.MarshalMap(timelineItem{
		ID:      timelineItemID,
		Version: version + 1,
		Payload: string(payload),
	})
	if err != nil {
		return pkgerrors.NewStoreIOError("encode timeline item", err)
	}

	input := &awsdynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}
	if version == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(id)")
	} else {
		input.ConditionExpression = aws.String("version = :v")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: formatVersion(version)},
		}
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return pkgerrors.NewConflictError("timeline was modified concurrently, retry the operation")
		}
		return pkgerrors.NewStoreIOError("put timeline", err)
	}

	s.logger.Debug("persisted timeline", zap.Int64("version", version+1))
	return nil
}

func (s *TimelineStore) load(ctx context.Context) (*entities.TimelineDocument, int64, error) {
	out, err := s.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: timelineItemID}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, 0, pkgerrors.NewStoreIOError("get timeline", err)
	}
	if out.Item == nil {
		return entities.NewTimelineDocument(), 0, nil
	}

	var item timelineItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, 0, pkgerrors.NewStoreIOError("decode timeline item", err)
	}
	var doc entities.TimelineDocument
	if err := json.Unmarshal([]byte(item.Payload), &doc); err != nil {
		return nil, 0, pkgerrors.NewStoreIOError("decode timeline payload", err)
	}
	doc.SortEntries()
	doc.SortEpochs()
	return &doc, item.Version, nil
}

func formatVersion(v int64) string {
	return strconv.FormatInt(v, 10)
}
