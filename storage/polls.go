package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/SYCompass/syrianzone-tierlist/logging"
)

type PollStorage interface {
	Get(ctx context.Context, slug string) (*Poll, error)
	GetAll(ctx context.Context) ([]*Poll, error)
	Create(ctx context.Context, poll *Poll) error
	Update(ctx context.Context, poll *Poll) error
	Delete(ctx context.Context, slug string) error
}

type DynamoPollStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoPollStorage) Get(ctx context.Context, slug string) (*Poll, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": slug})
	if err != nil {
		logging.Log.Errorf("POLL: failed to marshal key for %s: %v", slug, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("POLL: GetItem for %s failed: %v", slug, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var poll Poll
	if err := attributevalue.UnmarshalMap(out.Item, &poll); err != nil {
		logging.Log.Errorf("POLL: failed to unmarshal poll: %v", err)
		return nil, err
	}
	return &poll, nil
}

func (s *DynamoPollStorage) GetAll(ctx context.Context) ([]*Poll, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("POLL: scan failed: %v", err)
		return nil, err
	}

	var polls []*Poll
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &polls); err != nil {
		logging.Log.Errorf("POLL: failed to unmarshal poll list: %v", err)
		return nil, err
	}
	return polls, nil
}

func (s *DynamoPollStorage) Create(ctx context.Context, poll *Poll) error {
	if poll.CreatedAt.IsZero() {
		poll.CreatedAt = time.Now().UTC()
	}
	item, err := attributevalue.MarshalMap(poll)
	if err != nil {
		logging.Log.Errorf("POLL: failed to marshal poll: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("POLL: poll %s already exists", poll.Slug)
			return ErrAlreadyExists
		}
		logging.Log.Errorf("POLL: failed to create poll: %v", err)
		return err
	}
	return nil
}

func (s *DynamoPollStorage) Update(ctx context.Context, poll *Poll) error {
	item, err := attributevalue.MarshalMap(poll)
	if err != nil {
		logging.Log.Errorf("POLL: failed to marshal updated poll: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("POLL: failed to update poll: %v", err)
		return err
	}
	return nil
}

func (s *DynamoPollStorage) Delete(ctx context.Context, slug string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": slug})
	if err != nil {
		logging.Log.Errorf("POLL: failed to marshal delete key for %s: %v", slug, err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("POLL: failed to delete poll %s: %v", slug, err)
		return err
	}
	logging.Log.Infof("POLL: deleted poll %s", slug)
	return nil
}
