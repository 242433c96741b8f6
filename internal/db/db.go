package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oceanatlas/pureingest/internal/config"
	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/types"
)

// Service owns the gorm handle for the relational store. The batch pipeline
// is the only writer; the read-only API layer consumes the same tables out
// of process.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(cfg config.DatabaseConfig, log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN + "?_fk=1")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	serviceLog.Info("Connecting to store...", "driver", cfg.Driver)
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}

	return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}

// dataModels lists every snapshot-derived table in dependency order;
// migration runs in this order and the rebuild drop runs in reverse. The
// pipeline_run ledger is deliberately not here: it survives rebuilds.
func dataModels() []interface{} {
	return []interface{}{
		&types.Member{},
		&types.ExpertiseTerm{},
		&types.ResearchOutput{},
		&types.OutputTag{},
		&types.Collaboration{},
		&types.Grant{},
		&types.FundingSource{},
		&types.OutputGrantLink{},
		&types.MemberStats{},
	}
}

func allModels() []interface{} {
	return append(dataModels(), &types.PipelineRun{})
}

// Rebuild destroys and recreates the data schema. A full rebuild from clean
// tables is the only supported recovery path, so there is no incremental
// migration story here.
func (s *Service) Rebuild() error {
	s.log.Info("Rebuilding schema...")
	models := dataModels()
	for i := len(models) - 1; i >= 0; i-- {
		if err := s.db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	if err := s.db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	s.log.Info("Schema rebuilt", "tables", len(models))
	return nil
}

// Migrate creates any missing tables without dropping existing data. Used by
// the read-side tooling (name mapping, verification) which must never wipe
// the store.
func (s *Service) Migrate() error {
	if err := s.db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
