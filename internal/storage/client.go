// Package storage is the persistence gateway: an append-only game-record
// table plus per-user counters with atomic increments, both on DynamoDB.
package storage

import "github.com/aws/aws-sdk-go-v2/service/dynamodb"

type Config struct {
	GameRecordsTableName *string
	UserStatsTableName   *string
}

type Client struct {
	dynamodb *dynamodb.Client
	cfg      Config
}

func NewClient(dynamoClient *dynamodb.Client, cfg Config) *Client {
	return &Client{
		dynamodb: dynamoClient,
		cfg:      cfg,
	}
}
