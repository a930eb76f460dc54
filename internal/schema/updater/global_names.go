// Package updater turns DDL statements into new schema snapshots. It hosts
// the statement applier, the per-update name registry and ID generators, the
// per-statement validation contexts with their deferred actions, and the
// public SchemaUpdater driver.
package updater

import (
	"fmt"
	"strings"

	"github.com/isabella232/cloud-spanner-emulator/internal/status"
)

// GlobalSchemaNames tracks the names that share the database-wide namespace:
// tables, indexes and user-declared foreign key constraints. Comparison is
// case-insensitive; stored names keep their case.
type GlobalSchemaNames struct {
	names map[string]string // lower-cased name -> original case
}

func NewGlobalSchemaNames() *GlobalSchemaNames {
	return &GlobalSchemaNames{names: make(map[string]string)}
}

// AddName claims name for an object of the given kind.
func (g *GlobalSchemaNames) AddName(kind, name string) error {
	if name == "" {
		return status.InternalError("empty %s name", kind)
	}
	key := strings.ToLower(name)
	if _, taken := g.names[key]; taken {
		return status.DuplicateName(kind, name)
	}
	g.names[key] = name
	return nil
}

// HasName reports whether name is claimed, under case-insensitive comparison.
func (g *GlobalSchemaNames) HasName(name string) bool {
	_, taken := g.names[strings.ToLower(name)]
	return taken
}

// RemoveName releases a claimed name.
func (g *GlobalSchemaNames) RemoveName(name string) {
	delete(g.names, strings.ToLower(name))
}

// GenerateForeignKeyName synthesizes and claims a constraint name for an
// unnamed foreign key, uniquified with a counter suffix.
func (g *GlobalSchemaNames) GenerateForeignKeyName(referencingTable, referencedTable string) (string, error) {
	base := fmt.Sprintf("FK_%s_%s", referencingTable, referencedTable)
	for suffix := 1; ; suffix++ {
		candidate := fmt.Sprintf("%s_%d", base, suffix)
		if g.HasName(candidate) {
			continue
		}
		if err := g.AddName("Foreign Key", candidate); err != nil {
			return "", err
		}
		return candidate, nil
	}
}
