package migration

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

// Manager runs the strategy chosen for the environment.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager uses versioned goose scripts everywhere except when
// useAutoMigrate is set, which is meant for disposable local databases.
func NewManager(driver string, useAutoMigrate bool, log logger.Interface) *Manager {
	if log == nil {
		log = logger.NewNop()
	}

	var strategy Strategy = NewGooseStrategy(driver, log)
	if useAutoMigrate {
		strategy = NewGormAutoMigrateStrategy(log)
	}

	return NewManagerWithStrategy(strategy, log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// GetStrategyInfo describes the active strategy for the migrate status output.
func (m *Manager) GetStrategyInfo() map[string]string {
	return map[string]string{
		"name":        m.strategy.GetName(),
		"description": getStrategyDescription(m.strategy.GetName()),
	}
}

func getStrategyDescription(strategyName string) string {
	switch strings.ToLower(strategyName) {
	case "gorm_auto_migrate":
		return "GORM AutoMigrate - schema derived from model definitions"
	case "goose":
		return "goose - versioned SQL scripts embedded in the binary"
	default:
		return "Unknown migration strategy"
	}
}
