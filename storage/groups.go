package storage

import (
	"context"
	"errors"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/SYCompass/syrianzone-tierlist/logging"
)

type CandidateGroupStorage interface {
	Get(ctx context.Context, id string) (*CandidateGroup, error)
	GetAll(ctx context.Context) ([]*CandidateGroup, error)
	GetByPoll(ctx context.Context, pollSlug string) ([]*CandidateGroup, error)
	Create(ctx context.Context, group *CandidateGroup) error
	Update(ctx context.Context, group *CandidateGroup) error
	Delete(ctx context.Context, id string) error
}

type DynamoCandidateGroupStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoCandidateGroupStorage) Get(ctx context.Context, id string) (*CandidateGroup, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("GROUP: failed to marshal key for %s: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("GROUP: GetItem for %s failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	var group CandidateGroup
	if err := attributevalue.UnmarshalMap(out.Item, &group); err != nil {
		logging.Log.Errorf("GROUP: failed to unmarshal group: %v", err)
		return nil, err
	}
	return &group, nil
}

func (s *DynamoCandidateGroupStorage) GetAll(ctx context.Context) ([]*CandidateGroup, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("GROUP: scan failed: %v", err)
		return nil, err
	}

	var groups []*CandidateGroup
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &groups); err != nil {
		logging.Log.Errorf("GROUP: failed to unmarshal group list: %v", err)
		return nil, err
	}
	return groups, nil
}

func (s *DynamoCandidateGroupStorage) GetByPoll(ctx context.Context, pollSlug string) ([]*CandidateGroup, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]*CandidateGroup, 0)
	for _, g := range all {
		if g.PollSlug == pollSlug {
			groups = append(groups, g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Order < groups[j].Order })
	return groups, nil
}

func (s *DynamoCandidateGroupStorage) Create(ctx context.Context, group *CandidateGroup) error {
	item, err := attributevalue.MarshalMap(group)
	if err != nil {
		logging.Log.Errorf("GROUP: failed to marshal group: %v", err)
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
			logging.Log.Warnf("GROUP: group %s already exists", group.ID)
			return ErrAlreadyExists
		}
		logging.Log.Errorf("GROUP: failed to create group: %v", err)
		return err
	}
	return nil
}

func (s *DynamoCandidateGroupStorage) Update(ctx context.Context, group *CandidateGroup) error {
	item, err := attributevalue.MarshalMap(group)
	if err != nil {
		logging.Log.Errorf("GROUP: failed to marshal updated group: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("GROUP: failed to update group: %v", err)
		return err
	}
	return nil
}

func (s *DynamoCandidateGroupStorage) Delete(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("GROUP: failed to marshal delete key for %s: %v", id, err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("GROUP: failed to delete group %s: %v", id, err)
		return err
	}
	logging.Log.Infof("GROUP: deleted group %s", id)
	return nil
}
