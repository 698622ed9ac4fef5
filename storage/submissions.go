package storage

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/SYCompass/syrianzone-tierlist/logging"
)

type SubmissionStorage interface {
	Get(ctx context.Context, pollSlug, voteDay, deviceID string) (*Submission, error)
	GetByDay(ctx context.Context, pollSlug, voteDay string) ([]*Submission, error)
	GetByPoll(ctx context.Context, pollSlug string) ([]*Submission, error)
	Create(ctx context.Context, submission *Submission) error
	DeleteAll(ctx context.Context) error
}

type DynamoSubmissionStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoSubmissionStorage) Get(ctx context.Context, pollSlug, voteDay, deviceID string) (*Submission, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": SubmissionPartition(pollSlug, voteDay),
		"SK": deviceID,
	})
	if err != nil {
		logging.Log.Errorf("SUBMISSION: failed to marshal key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("SUBMISSION: GetItem failed: %v", err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var submission Submission
	if err := attributevalue.UnmarshalMap(out.Item, &submission); err != nil {
		logging.Log.Errorf("SUBMISSION: failed to unmarshal submission: %v", err)
		return nil, err
	}
	return &submission, nil
}

func (s *DynamoSubmissionStorage) GetByDay(ctx context.Context, pollSlug, voteDay string) ([]*Submission, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.TableName,
		KeyConditionExpression: aws.String("PK = :partition"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":partition": &types.AttributeValueMemberS{Value: SubmissionPartition(pollSlug, voteDay)},
		},
	}

	out, err := s.Client.Query(ctx, input)
	if err != nil {
		logging.Log.Errorf("SUBMISSION: failed to query submissions for %s/%s: %v", pollSlug, voteDay, err)
		return nil, err
	}

	var submissions []*Submission
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &submissions); err != nil {
		logging.Log.Errorf("SUBMISSION: failed to unmarshal submissions: %v", err)
		return nil, err
	}
	return submissions, nil
}

func (s *DynamoSubmissionStorage) GetByPoll(ctx context.Context, pollSlug string) ([]*Submission, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &s.TableName,
		FilterExpression: aws.String("PollSlug = :slug"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":slug": &types.AttributeValueMemberS{Value: pollSlug},
		},
	})
	if err != nil {
		logging.Log.Errorf("SUBMISSION: scan for poll %s failed: %v", pollSlug, err)
		return nil, err
	}

	var submissions []*Submission
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &submissions); err != nil {
		logging.Log.Errorf("SUBMISSION: failed to unmarshal submissions: %v", err)
		return nil, err
	}
	return submissions, nil
}

func (s *DynamoSubmissionStorage) Create(ctx context.Context, submission *Submission) error {
	item, err := attributevalue.MarshalMap(submission)
	if err != nil {
		logging.Log.Errorf("SUBMISSION: failed to marshal submission: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("SUBMISSION: device %s already submitted for %s", submission.DeviceID, submission.PartitionKey)
			return ErrAlreadyExists
		}
		logging.Log.Errorf("SUBMISSION: failed to create submission: %v", err)
		return err
	}
	return nil
}

func (s *DynamoSubmissionStorage) DeleteAll(ctx context.Context) error {
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		scanOutput, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            &s.TableName,
			ExclusiveStartKey:    lastEvaluatedKey,
			ProjectionExpression: aws.String("PK, SK"),
		})
		if err != nil {
			logging.Log.Errorf("SUBMISSION: scan for delete failed: %v", err)
			return err
		}

		var writeRequests []types.WriteRequest
		for _, item := range scanOutput.Items {
			writeRequests = append(writeRequests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"PK": item["PK"],
						"SK": item["SK"],
					},
				},
			})
		}

		for i := 0; i < len(writeRequests); i += 25 {
			end := i + 25
			if end > len(writeRequests) {
				end = len(writeRequests)
			}
			_, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					s.TableName: writeRequests[i:end],
				},
			})
			if err != nil {
				logging.Log.Errorf("SUBMISSION: batch delete failed: %v", err)
				return err
			}
			logging.Log.Infof("SUBMISSION: deleted batch of %d items", end-i)
		}

		if scanOutput.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = scanOutput.LastEvaluatedKey
	}

	return nil
}
