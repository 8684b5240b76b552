package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/civicpulse/civicpulse/internal/infrastructure/persistence/models"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

// AutoMigrateModels lists every persisted model.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ComplaintModel{},
		&models.ComplaintActivityModel{},
		&models.CitizenModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the models. It is only
// used for throwaway development databases.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	if log == nil {
		log = logger.NewNop()
	}
	return &GormAutoMigrateStrategy{logger: log.With("component", "migration.automigrate")}
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	targets := AutoMigrateModels()
	s.logger.Infow("running gorm auto migrate", "models_count", len(targets))
	if err := db.AutoMigrate(targets...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
