package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/isabella232/cloud-spanner-emulator/internal/config"
	"github.com/isabella232/cloud-spanner-emulator/internal/ddl"
	"github.com/isabella232/cloud-spanner-emulator/internal/dump"
	"github.com/isabella232/cloud-spanner-emulator/internal/schema/catalog"
	"github.com/isabella232/cloud-spanner-emulator/internal/schema/updater"
	"github.com/isabella232/cloud-spanner-emulator/internal/storage"
	"github.com/isabella232/cloud-spanner-emulator/internal/types"
	"github.com/isabella232/cloud-spanner-emulator/internal/ui/explorer"
	"github.com/isabella232/cloud-spanner-emulator/pkg/logger"
	"github.com/isabella232/cloud-spanner-emulator/pkg/progress"
)

// Database is one emulated database: its current schema snapshot, its row
// store, and the generators shared by every schema change against it.
type Database struct {
	Name    string
	Schema  *catalog.Schema
	Storage *storage.Engine

	typeFactory types.Factory
	tableIDs    updater.TableIDGenerator
	columnIDs   updater.ColumnIDGenerator
	log         *logger.Logger
}

func NewDatabase(name string, log *logger.Logger) *Database {
	return &Database{
		Name:        name,
		Schema:      updater.EmptySchema(),
		Storage:     storage.NewEngine(),
		typeFactory: types.NewFactory(),
		log:         log,
	}
}

func (d *Database) schemaChangeContext() updater.SchemaChangeContext {
	return updater.SchemaChangeContext{
		TypeFactory:           d.typeFactory,
		TableIDGenerator:      &d.tableIDs,
		ColumnIDGenerator:     &d.columnIDs,
		Storage:               d.Storage,
		SchemaChangeTimestamp: time.Now(),
		Log:                   d.log,
	}
}

// ApplyDDL applies one batch of statements and installs the updated snapshot.
// A batch that fails structural validation leaves the installed schema
// unchanged. When a deferred action fails, the snapshot after the last fully
// successful statement (if any) is installed and the failure is returned.
func (d *Database) ApplyDDL(statements []string) (updater.SchemaChangeResult, error) {
	var u updater.SchemaUpdater
	result, err := u.UpdateSchemaFromDDL(d.Schema, statements, d.schemaChangeContext())
	if err != nil {
		return result, err
	}
	if result.UpdatedSchema != nil {
		d.Schema = result.UpdatedSchema
	}
	if result.BackfillStatus != nil {
		return result, fmt.Errorf("schema change stopped after %d of %d statements: %w",
			result.NumSuccessfulStatements, len(statements), result.BackfillStatus)
	}
	return result, nil
}

// ValidateDDL checks a batch against the current snapshot without installing
// it or running backfills.
func (d *Database) ValidateDDL(statements []string) (*catalog.Schema, error) {
	var u updater.SchemaUpdater
	return u.ValidateSchemaFromDDL(statements, d.schemaChangeContext(), d.Schema)
}

// Service bundles the CLI workflows.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Apply creates a database and applies each schema file in order.
func (s *Service) Apply(cfg *config.Config, files []string, verbose bool) (*Database, error) {
	log := logger.NewLogger(verbose || cfg.Verbose)
	db := NewDatabase(cfg.Database.Name, log)

	if len(files) == 0 {
		files = cfg.DDL.Files
	}
	bar := progress.NewBar(int64(len(files)), "applying schema files")
	for _, file := range files {
		statements, err := readStatements(file)
		if err != nil {
			return nil, err
		}
		result, err := db.ApplyDDL(statements)
		if err != nil {
			return nil, fmt.Errorf("apply %s: %w", file, err)
		}
		log.Infof("applied %d statements from %s", result.NumSuccessfulStatements, file)
		bar.Increment()
	}
	bar.Finish()

	log.Infof("database %s: %d tables, %d indexes",
		db.Name, len(db.Schema.Tables()), db.Schema.NumIndexes())
	return db, nil
}

// Validate runs the structural phase over every file without installing
// anything and returns the resulting snapshot.
func (s *Service) Validate(cfg *config.Config, files []string, verbose bool) (*catalog.Schema, error) {
	log := logger.NewLogger(verbose || cfg.Verbose)
	db := NewDatabase(cfg.Database.Name, log)

	if len(files) == 0 {
		files = cfg.DDL.Files
	}
	var statements []string
	for _, file := range files {
		fileStatements, err := readStatements(file)
		if err != nil {
			return nil, err
		}
		statements = append(statements, fileStatements...)
	}

	schema, err := db.ValidateDDL(statements)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		schema = db.Schema
	}
	log.Infof("validated %d statements", len(statements))
	return schema, nil
}

// Dump writes the database's schema as DDL text.
func (s *Service) Dump(db *Database, w io.Writer) error {
	return dump.Write(db.Schema, w)
}

// Explore opens the interactive snapshot browser.
func (s *Service) Explore(db *Database) error {
	return explorer.Run(db.Name, db.Schema)
}

func readStatements(file string) ([]string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ddl.SplitStatements(string(data)), nil
}
