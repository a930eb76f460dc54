package updater

import (
	"github.com/isabella232/cloud-spanner-emulator/internal/ddl"
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
	"github.com/isabella232/cloud-spanner-emulator/internal/types"
)

// ddlTypeToType resolves a parsed DDL type through the type factory.
func ddlTypeToType(node *ddl.TypeNode, factory types.Factory) (*types.Type, error) {
	switch node.Name {
	case "BOOL":
		return factory.Scalar(types.Bool)
	case "INT64":
		return factory.Scalar(types.Int64)
	case "FLOAT64":
		return factory.Scalar(types.Float64)
	case "STRING":
		return factory.Scalar(types.String)
	case "BYTES":
		return factory.Scalar(types.Bytes)
	case "DATE":
		return factory.Scalar(types.Date)
	case "TIMESTAMP":
		return factory.Scalar(types.Timestamp)
	case "ARRAY":
		elem, err := ddlTypeToType(node.Elem, factory)
		if err != nil {
			return nil, err
		}
		return factory.ArrayOf(elem)
	default:
		return nil, status.InternalError("unknown DDL type %s", node.Name)
	}
}
