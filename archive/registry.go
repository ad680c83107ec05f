package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrDuplicateRun is returned when a run ID was already registered.
var ErrDuplicateRun = errors.New("run already registered")

// RunRecord describes one completed analysis run.
type RunRecord struct {
	RunID          string
	Exponent       uint32
	Workers        int
	SegmentBytes   int
	TotalPrimes    uint64
	TotalSuccesses uint64
	CompletedAt    time.Time
}

// DDBClient is the subset of the DynamoDB API the registry needs.
// Narrowed for testability.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// RunRegistry records completed runs in a DynamoDB table, using a
// conditional write so re-registering the same run ID fails instead of
// silently overwriting an earlier result.
//
// Table schema: partition key run_id (string).
type RunRegistry struct {
	client    DDBClient
	tableName string
}

// NewRunRegistry creates a registry over an existing DynamoDB table.
func NewRunRegistry(client DDBClient, tableName string) *RunRegistry {
	return &RunRegistry{
		client:    client,
		tableName: tableName,
	}
}

// Register stores the record, failing with ErrDuplicateRun if the run ID
// exists.
func (r *RunRegistry) Register(ctx context.Context, rec RunRecord) error {
	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"run_id":          &types.AttributeValueMemberS{Value: rec.RunID},
			"exponent":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", rec.Exponent)},
			"workers":         &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", rec.Workers)},
			"segment_bytes":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", rec.SegmentBytes)},
			"total_primes":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", rec.TotalPrimes)},
			"total_successes": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", rec.TotalSuccesses)},
			"completed_at":    &types.AttributeValueMemberS{Value: rec.CompletedAt.UTC().Format(time.RFC3339)},
		},
		ConditionExpression: aws.String("attribute_not_exists(run_id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s", ErrDuplicateRun, rec.RunID)
		}
		return fmt.Errorf("failed to register run: %w", err)
	}
	return nil
}

// Lookup fetches a previously registered run.
func (r *RunRegistry) Lookup(ctx context.Context, runID string) (RunRecord, bool, error) {
	resp, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"run_id": &types.AttributeValueMemberS{Value: runID},
		},
	})
	if err != nil {
		return RunRecord{}, false, err
	}
	if len(resp.Item) == 0 {
		return RunRecord{}, false, nil
	}

	rec := RunRecord{RunID: runID}
	if v, ok := resp.Item["exponent"].(*types.AttributeValueMemberN); ok {
		fmt.Sscanf(v.Value, "%d", &rec.Exponent)
	}
	if v, ok := resp.Item["workers"].(*types.AttributeValueMemberN); ok {
		fmt.Sscanf(v.Value, "%d", &rec.Workers)
	}
	if v, ok := resp.Item["segment_bytes"].(*types.AttributeValueMemberN); ok {
		fmt.Sscanf(v.Value, "%d", &rec.SegmentBytes)
	}
	if v, ok := resp.Item["total_primes"].(*types.AttributeValueMemberN); ok {
		fmt.Sscanf(v.Value, "%d", &rec.TotalPrimes)
	}
	if v, ok := resp.Item["total_successes"].(*types.AttributeValueMemberN); ok {
		fmt.Sscanf(v.Value, "%d", &rec.TotalSuccesses)
	}
	if v, ok := resp.Item["completed_at"].(*types.AttributeValueMemberS); ok {
		rec.CompletedAt, _ = time.Parse(time.RFC3339, v.Value)
	}
	return rec, true, nil
}
