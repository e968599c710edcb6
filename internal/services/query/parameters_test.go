package query

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/query"
)

func TestConvertParams_ConvertsEachTaggedValue(t *testing.T) {
	args, err := ConvertParams(
		[]uint32{pgtype.BoolOID, pgtype.TextOID, pgtype.Int4OID, pgtype.Int8OID, pgtype.Float8OID},
		[]query.Value{
			query.BoolValue(true),
			query.StringValue("hello"),
			query.Int4Value(42),
			query.Int8Value(9000),
			query.DoubleValue(3.14),
		},
	)
	require.NoError(t, err)
	require.Len(t, args, 5)

	assert.Equal(t, true, args[0])
	assert.Equal(t, "hello", args[1])
	assert.Equal(t, int32(42), args[2])
	assert.Equal(t, int64(9000), args[3])
	assert.Equal(t, 3.14, args[4])
}

func TestConvertParams_NoneBecomesTypedNilPointer(t *testing.T) {
	args, err := ConvertParams([]uint32{pgtype.TextOID}, []query.Value{query.NoneValue()})
	require.NoError(t, err)

	assert.Equal(t, (*string)(nil), args[0])
}

func TestConvertParams_MismatchedCountFails(t *testing.T) {
	_, err := ConvertParams([]uint32{pgtype.TextOID, pgtype.Int4OID}, []query.Value{query.StringValue("x")})
	require.Error(t, err)

	queryErr, ok := err.(*poolyerrors.QueryError)
	require.True(t, ok)
	assert.Equal(t, poolyerrors.QueryWrongNumParams, queryErr.Kind)
}

func TestConvertParams_UnacceptedOIDForTagFails(t *testing.T) {
	_, err := ConvertParams([]uint32{pgtype.BoolOID}, []query.Value{query.StringValue("not a bool")})
	require.Error(t, err)

	queryErr, ok := err.(*poolyerrors.QueryError)
	require.True(t, ok)
	assert.Equal(t, poolyerrors.QueryUnknownPostgresValueType, queryErr.Kind)
}

func TestConvertParams_CharEncodesAsInt8(t *testing.T) {
	args, err := ConvertParams([]uint32{pgtype.QCharOID}, []query.Value{query.CharValue(65)})
	require.NoError(t, err)

	assert.Equal(t, int8(65), args[0])
}
