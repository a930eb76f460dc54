package status

// Constructors for the errors the schema updater surfaces to callers. The
// message texts follow Cloud Spanner's wording where it is documented.

func EmptyDDLStatement() *Error {
	return Errorf(InvalidArgument, "DDL statement is empty")
}

func TableNotFound(name string) *Error {
	return Errorf(NotFound, "table %s not found", name)
}

func IndexNotFound(name string) *Error {
	return Errorf(NotFound, "index %s not found", name)
}

func ColumnNotFound(table, column string) *Error {
	return Errorf(NotFound, "column %s not found in table %s", column, table)
}

func NonExistentKeyColumn(objectKind, objectName, column string) *Error {
	return Errorf(InvalidArgument, "%s %s references nonexistent key column %s",
		objectKind, objectName, column)
}

func IndexInterleaveTableNotFound(index, parent string) *Error {
	return Errorf(NotFound, "parent table %s of index %s not found", parent, index)
}

func IndexRefsNonExistentColumn(index, column string) *Error {
	return Errorf(InvalidArgument, "index %s references nonexistent column %s",
		index, column)
}

func ForeignKeyColumnNotFound(column, table, foreignKey string) *Error {
	return Errorf(NotFound, "column %s not found in table %s for foreign key %s",
		column, table, foreignKey)
}

func DuplicateName(kind, name string) *Error {
	return Errorf(AlreadyExists, "duplicate name: %s %s already exists", kind, name)
}

func TooManyTablesPerDatabase(table string, limit int) *Error {
	return Errorf(ResourceExhausted,
		"cannot create table %s: too many tables per database (limit %d)", table, limit)
}

func TooManyIndicesPerDatabase(index string, limit int) *Error {
	return Errorf(ResourceExhausted,
		"cannot create index %s: too many indexes per database (limit %d)", index, limit)
}

func ConstraintNotFound(constraint, table string) *Error {
	return Errorf(NotFound, "constraint %s not found on table %s", constraint, table)
}

// DroppedNodeStillReferenced reports a DROP whose target is still required by
// another schema object, e.g. dropping a table that an index is defined on.
func DroppedNodeStillReferenced(dropped, dependent string) *Error {
	return Errorf(FailedPrecondition, "cannot drop %s: still referenced by %s",
		dropped, dependent)
}

// UniqueIndexViolation reports a duplicate entry found while backfilling a
// unique index.
func UniqueIndexViolation(index, key string) *Error {
	return Errorf(FailedPrecondition,
		"unique index %s: duplicate entry for key %s", index, key)
}

// IncompleteNode reports a builder finalized with a required field unset.
func IncompleteNode(node, field string) *Error {
	return Errorf(Internal, "incomplete node %s: missing %s", node, field)
}

func InternalError(format string, args ...interface{}) *Error {
	return Errorf(Internal, format, args...)
}
