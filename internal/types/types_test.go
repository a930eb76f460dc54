package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabella232/cloud-spanner-emulator/internal/types"
)

func TestFactoryCanonicalDescriptors(t *testing.T) {
	factory := types.NewFactory()

	int64Type, err := factory.Scalar(types.Int64)
	require.NoError(t, err)
	again, err := factory.Scalar(types.Int64)
	require.NoError(t, err)
	assert.Same(t, int64Type, again)

	arrayType, err := factory.ArrayOf(int64Type)
	require.NoError(t, err)
	arrayAgain, err := factory.ArrayOf(int64Type)
	require.NoError(t, err)
	assert.Same(t, arrayType, arrayAgain)
	assert.True(t, arrayType.IsArray())
	assert.Same(t, int64Type, arrayType.ArrayElementType())
}

func TestFactoryRejectsNestedArrays(t *testing.T) {
	factory := types.NewFactory()
	stringType, err := factory.Scalar(types.String)
	require.NoError(t, err)

	arrayType, err := factory.ArrayOf(stringType)
	require.NoError(t, err)

	_, err = factory.ArrayOf(arrayType)
	require.Error(t, err)
}

func TestTypeString(t *testing.T) {
	factory := types.NewFactory()
	stringType, err := factory.Scalar(types.String)
	require.NoError(t, err)
	assert.Equal(t, "STRING", stringType.String())
	assert.True(t, stringType.SizedLength())

	arrayType, err := factory.ArrayOf(stringType)
	require.NoError(t, err)
	assert.Equal(t, "ARRAY<STRING>", arrayType.String())

	boolType, err := factory.Scalar(types.Bool)
	require.NoError(t, err)
	assert.False(t, boolType.SizedLength())
}
