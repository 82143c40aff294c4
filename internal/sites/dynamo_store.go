package sites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/launchpage-ai/launchpage/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoStore persists site records to DynamoDB. The table's TTL attribute is
// expiresAt.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	ttl       time.Duration
	logger    *logging.Logger
}

// NewDynamoStore builds a store backed by the provided DynamoDB client.
func NewDynamoStore(client dynamoAPI, tableName string, ttl time.Duration, logger *logging.Logger) *DynamoStore {
	if client == nil {
		panic("sites: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("sites: table name cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		logger:    logger,
	}
}

var _ Store = (*DynamoStore)(nil)

// Save writes the record. Last write wins for a given session ID.
func (s *DynamoStore) Save(ctx context.Context, record *SiteRecord) error {
	if record == nil || record.SessionID == "" {
		return errors.New("sites: record with sessionID required")
	}
	stamp(record, s.ttl)

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("sites: marshal record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("sites: save record: %w", err)
	}
	return nil
}

// Get fetches a record by session ID.
func (s *DynamoStore) Get(ctx context.Context, sessionID string) (*SiteRecord, error) {
	if sessionID == "" {
		return nil, errors.New("sites: sessionID required")
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"sessionId": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sites: fetch record: %w", err)
	}
	if out.Item == nil {
		return nil, ErrSiteNotFound
	}

	var record SiteRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("sites: decode record: %w", err)
	}
	return &record, nil
}
