package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Query string `validate:"required"`
	Limit int    `validate:"gte=0,lte=100"`
}

func TestValidate_Success(t *testing.T) {
	s := testStruct{Query: "headphones", Limit: 10}
	err := Validate(s)
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	s := testStruct{Limit: 10}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Query")
	assert.Equal(t, "is required", fields["Query"])
}

func TestValidate_OutOfRange(t *testing.T) {
	s := testStruct{Query: "headphones", Limit: 200}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Limit")
	assert.Contains(t, fields["Limit"], "100")
}

func TestValidate_MultipleErrors(t *testing.T) {
	s := testStruct{Limit: -1}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Query")
	assert.Contains(t, fields, "Limit")
}

func TestValidationError_ErrorString(t *testing.T) {
	s := testStruct{Limit: 10}
	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Query'")
	assert.Contains(t, err.Error(), "is required")
}

type minMaxStruct struct {
	Short string `validate:"min=3"`
	Long  string `validate:"max=5"`
}

func TestValidate_MinMax(t *testing.T) {
	s := minMaxStruct{Short: "ab", Long: "toolongstring"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields["Short"], "at least 3")
	assert.Contains(t, fields["Long"], "at most 5")
}

type uuidStruct struct {
	ID string `validate:"uuid"`
}

func TestValidate_UUID(t *testing.T) {
	s := uuidStruct{ID: "not-a-uuid"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid UUID", valErr.Fields()["ID"])
}

func TestValidate_UUID_Valid(t *testing.T) {
	s := uuidStruct{ID: "550e8400-e29b-41d4-a716-446655440000"}
	err := Validate(s)
	assert.NoError(t, err)
}

type diveStruct struct {
	IDs []string `validate:"required,min=1,max=3,dive,required"`
}

func TestValidate_Dive(t *testing.T) {
	assert.NoError(t, Validate(diveStruct{IDs: []string{"p1", "p2"}}))
	assert.Error(t, Validate(diveStruct{IDs: []string{}}))
	assert.Error(t, Validate(diveStruct{IDs: []string{"p1", ""}}))
	assert.Error(t, Validate(diveStruct{IDs: []string{"a", "b", "c", "d"}}))
}
