// Package di wires configuration, stores and services into a single
// container using google/wire. Run `wire` in this directory after
// changing providers to regenerate wire_gen.go.
package di

import (
	"io"

	"atlas-backend/application/ports"
	"atlas-backend/application/services"
	"atlas-backend/infrastructure/config"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	ElementRepo      ports.ElementRepository
	TimelineRepo     ports.TimelineRepository
	ElementService   *services.ElementService
	TimelineService  *services.TimelineService
	HistoryService   *services.HistoryService
	EpochService     *services.EpochService
	SnapshotService  *services.SnapshotService
	MigrationService *services.MigrationService
}

// Close releases store resources such as the file watcher
func (c *Container) Close() error {
	var firstErr error
	for _, dep := range []interface{}{c.TimelineRepo, c.ElementRepo} {
		if closer, ok := dep.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
