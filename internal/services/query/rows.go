package query

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/query"
)

// ConvertRows drains rows into column names plus the rows' Value
// representations, consuming rows in the process. Column values are
// decoded by pgx into native Go types before being re-tagged into the
// Value taxonomy, keyed by each column's reported OID.
func ConvertRows(rows pgx.Rows) ([]string, []query.Row, error) {
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()

	columnNames := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columnNames[i] = fd.Name
	}

	var result []query.Row

	for rows.Next() {
		decoded, err := rows.Values()
		if err != nil {
			return nil, nil, poolyerrors.WrapPostgresError(err)
		}

		values := make([]query.Value, len(fieldDescs))

		for i, fd := range fieldDescs {
			value, err := convertField(fd.DataTypeOID, decoded[i])
			if err != nil {
				return nil, nil, err
			}

			values[i] = value
		}

		result = append(result, query.Row{Values: values})
	}

	if err := rows.Err(); err != nil {
		return nil, nil, poolyerrors.WrapPostgresError(err)
	}

	return columnNames, result, nil
}

func convertField(oid uint32, decoded any) (query.Value, error) {
	if decoded == nil {
		return query.NoneValue(), nil
	}

	switch oid {
	case pgtype.BoolOID:
		return query.BoolValue(decoded.(bool)), nil
	case pgtype.ByteaOID:
		return query.BytesValue(decoded.([]byte)), nil
	case pgtype.QCharOID:
		return query.CharValue(int32(decoded.(int32))), nil
	case pgtype.JSONOID, pgtype.JSONBOID:
		return query.JSONValue(string(decoded.([]byte))), nil
	case pgtype.NameOID, pgtype.TextOID, pgtype.VarcharOID:
		return query.StringValue(decoded.(string)), nil
	case pgtype.Int8OID:
		return query.Int8Value(decoded.(int64)), nil
	case pgtype.Int4OID, pgtype.Int2OID:
		return query.Int4Value(toInt32(decoded)), nil
	case pgtype.Float4OID:
		return query.FloatValue(decoded.(float32)), nil
	case pgtype.Float8OID:
		return query.DoubleValue(decoded.(float64)), nil
	default:
		return query.Value{}, poolyerrors.NewUnknownPostgresValueType(oid)
	}
}

func toInt32(decoded any) int32 {
	switch v := decoded.(type) {
	case int32:
		return v
	case int16:
		return int32(v)
	default:
		return 0
	}
}
