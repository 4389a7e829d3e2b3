//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"atlas-backend/application/services"
	"atlas-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideElementRepository,
	ProvideTimelineRepository,
	services.NewHistoryService,
	services.NewElementService,
	services.NewTimelineService,
	services.NewEpochService,
	services.NewSnapshotService,
	services.NewMigrationService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
