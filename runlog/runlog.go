// Package runlog records optimization runs as an append-only, versioned log
// in DynamoDB. Each entry points at the snapshot blob for that checkpoint,
// so a run can be resumed from its latest committed state.
//
// DynamoDB conditional writes give the log atomic append semantics; two
// workers checkpointing the same run cannot both claim the same version.
//
// Table schema:
//   - Partition key: run_id (string)
//   - Sort key: version (number) - monotonically increasing
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name qsimgo-runs \
//	  --attribute-definitions AttributeName=run_id,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=run_id,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package runlog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentAppend is returned when another writer committed the same
// version first.
var ErrConcurrentAppend = errors.New("concurrent append detected")

// ErrRunNotFound is returned when a run has no committed entries.
var ErrRunNotFound = errors.New("run not found")

// Entry is one committed checkpoint of an optimization run.
type Entry struct {
	RunID    string
	Version  uint64
	Snapshot string // blob name of the register snapshot
	Energy   float64
	Params   []float64

	CreatedAt time.Time
}

// Log is a DynamoDB-backed run log.
type Log struct {
	client    DDBClient
	tableName string
}

// New creates a run log writing to the given table.
func New(client DDBClient, tableName string) *Log {
	return &Log{
		client:    client,
		tableName: tableName,
	}
}

// Append commits the entry with the next version for its run. The entry's
// Version and CreatedAt fields are assigned by the log.
func (l *Log) Append(ctx context.Context, entry *Entry) error {
	latest, err := l.latestVersion(ctx, entry.RunID)
	if err != nil {
		return err
	}

	entry.Version = latest + 1
	entry.CreatedAt = time.Now().UTC()

	params := make([]types.AttributeValue, len(entry.Params))
	for i, p := range entry.Params {
		params[i] = &types.AttributeValueMemberN{Value: strconv.FormatFloat(p, 'g', -1, 64)}
	}

	_, err = l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.tableName),
		Item: map[string]types.AttributeValue{
			"run_id":     &types.AttributeValueMemberS{Value: entry.RunID},
			"version":    &types.AttributeValueMemberN{Value: strconv.FormatUint(entry.Version, 10)},
			"snapshot":   &types.AttributeValueMemberS{Value: entry.Snapshot},
			"energy":     &types.AttributeValueMemberN{Value: strconv.FormatFloat(entry.Energy, 'g', -1, 64)},
			"params":     &types.AttributeValueMemberL{Value: params},
			"created_at": &types.AttributeValueMemberS{Value: entry.CreatedAt.Format(time.RFC3339Nano)},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentAppend
		}
		return fmt.Errorf("failed to append run entry: %w", err)
	}

	return nil
}

// Latest returns the most recent committed entry for the run.
func (l *Log) Latest(ctx context.Context, runID string) (*Entry, error) {
	resp, err := l.query(ctx, runID, false, 1)
	if err != nil {
		return nil, err
	}

	if len(resp.Items) == 0 {
		return nil, ErrRunNotFound
	}

	return parseEntry(runID, resp.Items[0])
}

// History returns all committed entries for the run in version order.
func (l *Log) History(ctx context.Context, runID string) ([]*Entry, error) {
	resp, err := l.query(ctx, runID, true, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(resp.Items))
	for _, item := range resp.Items {
		entry, err := parseEntry(runID, item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *Log) latestVersion(ctx context.Context, runID string) (uint64, error) {
	resp, err := l.query(ctx, runID, false, 1)
	if err != nil {
		return 0, err
	}

	if len(resp.Items) == 0 {
		return 0, nil
	}

	entry, err := parseEntry(runID, resp.Items[0])
	if err != nil {
		return 0, err
	}
	return entry.Version, nil
}

func (l *Log) query(ctx context.Context, runID string, ascending bool, limit int32) (*dynamodb.QueryOutput, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(l.tableName),
		KeyConditionExpression: aws.String("run_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: runID},
		},
		ScanIndexForward: aws.Bool(ascending),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	resp, err := l.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query run log: %w", err)
	}
	return resp, nil
}

func parseEntry(runID string, item map[string]types.AttributeValue) (*Entry, error) {
	entry := &Entry{RunID: runID}

	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return nil, errors.New("invalid version attribute")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse version: %w", err)
	}
	entry.Version = version

	if snapshotAttr, ok := item["snapshot"].(*types.AttributeValueMemberS); ok {
		entry.Snapshot = snapshotAttr.Value
	}

	if energyAttr, ok := item["energy"].(*types.AttributeValueMemberN); ok {
		energy, err := strconv.ParseFloat(energyAttr.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse energy: %w", err)
		}
		entry.Energy = energy
	}

	if paramsAttr, ok := item["params"].(*types.AttributeValueMemberL); ok {
		entry.Params = make([]float64, 0, len(paramsAttr.Value))
		for _, av := range paramsAttr.Value {
			n, ok := av.(*types.AttributeValueMemberN)
			if !ok {
				return nil, errors.New("invalid params attribute")
			}
			p, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse param: %w", err)
			}
			entry.Params = append(entry.Params, p)
		}
	}

	if createdAttr, ok := item["created_at"].(*types.AttributeValueMemberS); ok {
		t, err := time.Parse(time.RFC3339Nano, createdAttr.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		entry.CreatedAt = t
	}

	return entry, nil
}
