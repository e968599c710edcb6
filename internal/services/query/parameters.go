// Package query implements statement preparation and parameter/row
// marshalling between the pooly Value taxonomy and PostgreSQL, plus the
// query execution entry points (Query, BulkTx).
package query

import (
	"github.com/jackc/pgx/v5/pgtype"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/query"
)

var acceptedOIDsByTag = map[query.Tag]map[uint32]bool{
	query.TagBool:   {pgtype.BoolOID: true},
	query.TagBytes:  {pgtype.ByteaOID: true},
	query.TagChar:   {pgtype.QCharOID: true},
	query.TagString: {pgtype.NameOID: true, pgtype.TextOID: true, pgtype.JSONOID: true, pgtype.VarcharOID: true, pgtype.JSONBOID: true},
	query.TagInt4:   {pgtype.Int2OID: true, pgtype.Int4OID: true},
	query.TagInt8:   {pgtype.Int8OID: true},
	query.TagFloat:  {pgtype.Float4OID: true},
	query.TagDouble: {pgtype.Float8OID: true},
}

// ConvertParams validates received against expectedOIDs (one per
// positional parameter) and produces the pgx driver argument slice.
func ConvertParams(expectedOIDs []uint32, received []query.Value) ([]any, error) {
	if len(expectedOIDs) != len(received) {
		return nil, poolyerrors.NewWrongNumParams(len(expectedOIDs), len(received))
	}

	args := make([]any, len(received))

	for i, value := range received {
		oid := expectedOIDs[i]

		if value.Tag == query.TagNone {
			args[i] = nullForOID(oid)

			continue
		}

		arg, err := valueArg(value, oid)
		if err != nil {
			return nil, err
		}

		args[i] = arg
	}

	return args, nil
}

func valueArg(value query.Value, oid uint32) (any, error) {
	accepted, known := acceptedOIDsByTag[value.Tag]
	if !known || !accepted[oid] {
		return nil, poolyerrors.NewUnknownPostgresValueType(oid)
	}

	switch value.Tag {
	case query.TagBool:
		return value.Bool, nil
	case query.TagBytes:
		return value.Bytes, nil
	case query.TagChar:
		return int8(value.Char), nil
	case query.TagString:
		return value.String, nil
	case query.TagInt4:
		return value.Int4, nil
	case query.TagInt8:
		return value.Int8, nil
	case query.TagFloat:
		return value.Float, nil
	case query.TagDouble:
		return value.Double, nil
	default:
		return nil, poolyerrors.NewUnknownPostgresValueType(oid)
	}
}

func nullForOID(oid uint32) any {
	switch oid {
	case pgtype.TextOID, pgtype.VarcharOID, pgtype.NameOID, pgtype.JSONOID, pgtype.JSONBOID:
		return (*string)(nil)
	case pgtype.Int8OID:
		return (*int64)(nil)
	case pgtype.Int4OID, pgtype.Int2OID:
		return (*int32)(nil)
	case pgtype.BoolOID:
		return (*bool)(nil)
	case pgtype.ByteaOID:
		return ([]byte)(nil)
	case pgtype.QCharOID:
		return (*int8)(nil)
	case pgtype.Float4OID:
		return (*float32)(nil)
	case pgtype.Float8OID:
		return (*float64)(nil)
	default:
		return nil
	}
}
