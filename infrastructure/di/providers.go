package di

import (
	"context"
	"fmt"

	"atlas-backend/application/ports"
	"atlas-backend/infrastructure/config"
	dynamostore "atlas-backend/infrastructure/persistence/dynamodb"
	filestore "atlas-backend/infrastructure/persistence/file"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration. The file driver never talks
// to AWS, so credential resolution is skipped for it entirely.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	if cfg.StorageDriver != config.DriverDynamoDB {
		return aws.Config{}, nil
	}
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideElementRepository creates the element repository for the
// configured storage driver
func ProvideElementRepository(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) (ports.ElementRepository, error) {
	switch cfg.StorageDriver {
	case config.DriverDynamoDB:
		return dynamostore.NewElementStore(client, cfg.ElementsTable, logger), nil
	case config.DriverFile:
		return filestore.NewElementStore(cfg.DataDir, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// ProvideTimelineRepository creates the timeline repository for the
// configured storage driver
func ProvideTimelineRepository(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) (ports.TimelineRepository, error) {
	switch cfg.StorageDriver {
	case config.DriverDynamoDB:
		return dynamostore.NewTimelineStore(client, cfg.TimelineTable, logger), nil
	case config.DriverFile:
		return filestore.NewTimelineStore(cfg.DataDir, cfg.WatchDataDir, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
