package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gambit-gg/gambit/internal/domains/entities"
)

// AppendGameRecord writes the full record of a finished game. Records are
// keyed by game id and never updated afterwards.
func (client *Client) AppendGameRecord(ctx context.Context, record entities.GameRecord) error {
	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}

	_, err = client.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: client.cfg.GameRecordsTableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put game record: %w", err)
	}
	return nil
}
