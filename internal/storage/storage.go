// Package storage is the in-memory row store backing the emulated database.
// The schema subsystem treats it as an opaque engine: structural validation
// never touches it, only deferred actions (index backfills, data validators)
// read and write rows.
package storage

import (
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
)

// Row maps column IDs to values. A missing or nil entry is a NULL.
type Row map[uint64]interface{}

// Engine stores rows per table ID, in insertion order, indexed by an encoded
// primary key.
type Engine struct {
	tables map[uint64]*tableData
}

type tableData struct {
	rows  []Row
	byKey map[string]int
}

func NewEngine() *Engine {
	return &Engine{tables: make(map[uint64]*tableData)}
}

func (e *Engine) table(tableID uint64) *tableData {
	t, ok := e.tables[tableID]
	if !ok {
		t = &tableData{byKey: make(map[string]int)}
		e.tables[tableID] = t
	}
	return t
}

// Insert adds a row under its encoded primary key.
func (e *Engine) Insert(tableID uint64, key string, row Row) error {
	t := e.table(tableID)
	if _, exists := t.byKey[key]; exists {
		return status.Errorf(status.AlreadyExists,
			"row with key %s already exists in table %d", key, tableID)
	}
	t.byKey[key] = len(t.rows)
	t.rows = append(t.rows, row)
	return nil
}

// Rows returns the table's rows in insertion order. Callers must not modify
// the returned slice.
func (e *Engine) Rows(tableID uint64) []Row {
	if t, ok := e.tables[tableID]; ok {
		return t.rows
	}
	return nil
}

// NumRows returns the table's row count.
func (e *Engine) NumRows(tableID uint64) int {
	return len(e.Rows(tableID))
}

// DropTable discards all rows of a table.
func (e *Engine) DropTable(tableID uint64) {
	delete(e.tables, tableID)
}
