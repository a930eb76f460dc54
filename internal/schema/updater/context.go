package updater

import (
	"time"

	"github.com/isabella232/cloud-spanner-emulator/internal/schema/catalog"
	"github.com/isabella232/cloud-spanner-emulator/internal/storage"
)

// SchemaChangeAction is a deferred, data-dependent task produced while
// applying a statement: an index backfill or a data validator. Actions are
// tagged values so a pending queue can be inspected without running it.
type SchemaChangeAction interface {
	// Name identifies the action for logs and errors.
	Name() string
	// Run executes the action against the statement's validation context.
	Run(ctx *SchemaValidationContext) error
}

// SchemaValidationContext is the per-statement record of the schema change:
// the snapshots on either side of the statement and the deferred actions the
// statement queued. Actions run only after the whole batch passes structural
// validation.
type SchemaValidationContext struct {
	storage               *storage.Engine
	globalNames           *GlobalSchemaNames
	schemaChangeTimestamp time.Time

	oldSchema *catalog.Schema
	newSchema *catalog.Schema

	actions []SchemaChangeAction
}

func NewSchemaValidationContext(engine *storage.Engine, names *GlobalSchemaNames,
	schemaChangeTimestamp time.Time) *SchemaValidationContext {
	return &SchemaValidationContext{
		storage:               engine,
		globalNames:           names,
		schemaChangeTimestamp: schemaChangeTimestamp,
	}
}

func (c *SchemaValidationContext) Storage() *storage.Engine        { return c.storage }
func (c *SchemaValidationContext) GlobalNames() *GlobalSchemaNames { return c.globalNames }
func (c *SchemaValidationContext) SchemaChangeTimestamp() time.Time {
	return c.schemaChangeTimestamp
}

func (c *SchemaValidationContext) OldSchema() *catalog.Schema { return c.oldSchema }
func (c *SchemaValidationContext) NewSchema() *catalog.Schema { return c.newSchema }

func (c *SchemaValidationContext) SetOldSchemaSnapshot(s *catalog.Schema) { c.oldSchema = s }
func (c *SchemaValidationContext) SetNewSchemaSnapshot(s *catalog.Schema) { c.newSchema = s }

// AddAction queues a deferred action.
func (c *SchemaValidationContext) AddAction(a SchemaChangeAction) {
	c.actions = append(c.actions, a)
}

// PendingActions returns the queued actions in statement order.
func (c *SchemaValidationContext) PendingActions() []SchemaChangeAction {
	return c.actions
}

// RunSchemaChangeActions executes the queued actions in order, stopping at
// the first failure.
func (c *SchemaValidationContext) RunSchemaChangeActions() error {
	for _, a := range c.actions {
		if err := a.Run(c); err != nil {
			return err
		}
	}
	return nil
}
