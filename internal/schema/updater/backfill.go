package updater

import (
	"fmt"
	"strings"

	"github.com/isabella232/cloud-spanner-emulator/internal/schema/catalog"
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
	"github.com/isabella232/cloud-spanner-emulator/internal/storage"
)

// BackfillIndexAction populates a new index's data table from the rows of the
// indexed table. For a unique index, a duplicate declared key is a data
// error; for a null-filtered index, rows with a null key column are skipped.
type BackfillIndexAction struct {
	Index *catalog.Index
}

func (a *BackfillIndexAction) Name() string {
	return fmt.Sprintf("BackfillIndex(%s)", a.Index.Name())
}

func (a *BackfillIndexAction) Run(ctx *SchemaValidationContext) error {
	index := a.Index
	engine := ctx.Storage()
	dataTable := index.IndexDataTable()

	declaredKeys := len(index.KeyColumns())
	seen := make(map[string]bool)

	for _, row := range engine.Rows(index.IndexedTable().ID()) {
		entry := make(storage.Row, len(dataTable.Columns()))
		for _, c := range dataTable.Columns() {
			entry[c.ID()] = row[c.SourceColumn().ID()]
		}

		keyValues := make([]string, 0, len(dataTable.PrimaryKey()))
		nullKey := false
		for _, kc := range dataTable.PrimaryKey() {
			v := entry[kc.Column().ID()]
			if v == nil {
				nullKey = true
			}
			keyValues = append(keyValues, fmt.Sprintf("%v", v))
		}
		if index.NullFiltered() && nullKey {
			continue
		}

		if index.Unique() {
			declared := strings.Join(keyValues[:declaredKeys], "|")
			if seen[declared] {
				return status.UniqueIndexViolation(index.Name(), declared)
			}
			seen[declared] = true
		}

		if err := engine.Insert(dataTable.ID(), strings.Join(keyValues, "|"), entry); err != nil {
			return fmt.Errorf("backfill of index %s: %w", index.Name(), err)
		}
	}
	return nil
}
