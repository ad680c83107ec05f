package archive

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDDB keeps items in memory and honors attribute_not_exists(run_id).
type fakeDDB struct {
	items map[string]map[string]types.AttributeValue
}

func newFakeDDB() *fakeDDB {
	return &fakeDDB{items: make(map[string]map[string]types.AttributeValue)}
}

func (f *fakeDDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	id := params.Item["run_id"].(*types.AttributeValueMemberS).Value
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(run_id)" {
		if _, exists := f.items[id]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.items[id] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	id := params.Key["run_id"].(*types.AttributeValueMemberS).Value
	item, ok := f.items[id]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func TestRunRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRunRegistry(newFakeDDB(), "primeshield-runs")
	ctx := context.Background()

	rec := RunRecord{
		RunID:          "e8-w16",
		Exponent:       8,
		Workers:        16,
		SegmentBytes:   131072,
		TotalPrimes:    5761455,
		TotalSuccesses: 422765,
		CompletedAt:    time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, reg.Register(ctx, rec))

	got, found, err := reg.Lookup(ctx, "e8-w16")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec, got)

	_, found, err = reg.Lookup(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRunRegistry_DuplicateRun(t *testing.T) {
	reg := NewRunRegistry(newFakeDDB(), "primeshield-runs")
	ctx := context.Background()

	rec := RunRecord{RunID: "e6", Exponent: 6, CompletedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, reg.Register(ctx, rec))

	err := reg.Register(ctx, rec)
	assert.ErrorIs(t, err, ErrDuplicateRun)
}
