package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gambit-gg/gambit/internal/domains/entities"
)

var ErrUserStatsNotFound = fmt.Errorf("user stats not found")

// IncrementUserStats applies the delta to the user's counters in a single
// UpdateItem. ADD is atomic per item, so two games settling against the
// same user cannot lose an increment.
func (client *Client) IncrementUserStats(
	ctx context.Context,
	userId string,
	delta entities.StatsDelta,
) error {
	_, err := client.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: client.cfg.UserStatsTableName,
		Key: map[string]types.AttributeValue{
			"UserId": &types.AttributeValueMemberS{
				Value: userId,
			},
		},
		UpdateExpression: aws.String(
			"ADD Rating :rating, Wins :wins, Losses :losses, Draws :draws",
		),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rating": &types.AttributeValueMemberN{Value: strconv.Itoa(delta.Rating)},
			":wins":   &types.AttributeValueMemberN{Value: strconv.Itoa(delta.Wins)},
			":losses": &types.AttributeValueMemberN{Value: strconv.Itoa(delta.Losses)},
			":draws":  &types.AttributeValueMemberN{Value: strconv.Itoa(delta.Draws)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to increment user stats: %w", err)
	}
	return nil
}

// GetUserStats fetches the counters document for a user.
func (client *Client) GetUserStats(ctx context.Context, userId string) (entities.UserStats, error) {
	output, err := client.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: client.cfg.UserStatsTableName,
		Key: map[string]types.AttributeValue{
			"UserId": &types.AttributeValueMemberS{
				Value: userId,
			},
		},
	})
	if err != nil {
		return entities.UserStats{}, err
	}
	if output.Item == nil {
		return entities.UserStats{}, ErrUserStatsNotFound
	}
	var stats entities.UserStats
	if err := attributevalue.UnmarshalMap(output.Item, &stats); err != nil {
		return entities.UserStats{}, err
	}
	return stats, nil
}

// GetUserRating returns the stored rating for a user.
func (client *Client) GetUserRating(ctx context.Context, userId string) (int, error) {
	stats, err := client.GetUserStats(ctx, userId)
	if err != nil {
		return 0, err
	}
	return stats.Rating, nil
}
