package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const maxBatchSize = 25

// DynamoDBAPI is the subset of *dynamodb.Client the sink uses.
type DynamoDBAPI interface {
	dynamodb.QueryAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// rowItem stores one sheet row. Row numbers start at 1 like a spreadsheet,
// so the header lives at row 1.
type rowItem struct {
	Sheet string   `dynamodbav:"sheet"`
	Row   int      `dynamodbav:"row"`
	Cells []string `dynamodbav:"cells"`
}

// DynamoDBSink keeps the rows of one sheet under a single partition key,
// ordered by the numeric row sort key.
type DynamoDBSink struct {
	client DynamoDBAPI
	table  string
	sheet  string
}

func NewDynamoDBSink(client DynamoDBAPI, table, sheet string) *DynamoDBSink {
	return &DynamoDBSink{client: client, table: table, sheet: sheet}
}

func (s *DynamoDBSink) queryInput(forward bool) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:                aws.String(s.table),
		KeyConditionExpression:   aws.String("#s = :s"),
		ExpressionAttributeNames: map[string]string{"#s": "sheet"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: s.sheet},
		},
		ScanIndexForward: aws.Bool(forward),
	}
}

func (s *DynamoDBSink) ReadRows(ctx context.Context) ([][]string, error) {
	var rows [][]string
	paginator := dynamodb.NewQueryPaginator(s.client, s.queryInput(true))
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDBSink] query for %s failed: %w", s.sheet, err)
		}

		var page []rowItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("[DynamoDBSink] unable to unmarshal rows: %w", err)
		}
		for _, item := range page {
			rows = append(rows, item.Cells)
		}
	}

	slog.Debug("[DynamoDBSink] Read rows", slog.Int("count", len(rows)))
	return rows, nil
}

func (s *DynamoDBSink) WriteHeader(ctx context.Context, header []string) error {
	item, err := attributevalue.MarshalMap(rowItem{Sheet: s.sheet, Row: 1, Cells: header})
	if err != nil {
		return fmt.Errorf("[DynamoDBSink] unable to marshal header: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDBSink] failed to write header: %w", err)
	}
	return nil
}

// AppendRows numbers the new rows after the current last row. Batches are
// written in order; a failure part way leaves the earlier batches in place.
func (s *DynamoDBSink) AppendRows(ctx context.Context, rows [][]string) error {
	last, err := s.lastRow(ctx)
	if err != nil {
		return err
	}

	for i := 0; i < len(rows); i += maxBatchSize {
		end := min(i+maxBatchSize, len(rows))

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for j, cells := range rows[i:end] {
			item, err := attributevalue.MarshalMap(rowItem{Sheet: s.sheet, Row: last + i + j + 1, Cells: cells})
			if err != nil {
				return fmt.Errorf("[DynamoDBSink] unable to marshal row: %w", err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{s.table: writeRequests},
		})
		if err != nil {
			return fmt.Errorf("[DynamoDBSink] failed to batch write rows: %w", err)
		}
		if n := len(out.UnprocessedItems[s.table]); n > 0 {
			return fmt.Errorf("[DynamoDBSink] %d rows were not processed", n)
		}
	}
	return nil
}

func (s *DynamoDBSink) lastRow(ctx context.Context) (int, error) {
	input := s.queryInput(false)
	input.Limit = aws.Int32(1)

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("[DynamoDBSink] failed to find last row: %w", err)
	}
	if len(out.Items) == 0 {
		return 0, nil
	}

	var item rowItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return 0, fmt.Errorf("[DynamoDBSink] unable to unmarshal last row: %w", err)
	}
	return item.Row, nil
}
