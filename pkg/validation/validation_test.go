package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `field:"name" validate:"required,max=5"`
	Email string `json:"email,omitempty" validate:"required,email"`
	Kind  string `validate:"omitempty,oneof=a b"`
}

func TestStruct(t *testing.T) {
	errs := Struct(sample{Name: "toolong", Email: "nope", Kind: "c"})

	require.Len(t, errs, 3)
	assert.Equal(t, FieldError{Field: "name", Message: "must be at most 5 characters"}, errs[0])
	assert.Equal(t, FieldError{Field: "email", Message: "must be a valid email address"}, errs[1])
	assert.Equal(t, "Kind", errs[2].Field)
	assert.Contains(t, errs.Error(), "name: must be at most 5 characters")
}

func TestStruct_Valid(t *testing.T) {
	assert.Nil(t, Struct(sample{Name: "ok", Email: "a@b.co"}))
	assert.NoError(t, Struct(sample{Name: "ok", Email: "a@b.co"}).Err())
}

func TestErrors_Add(t *testing.T) {
	var errs Errors
	assert.NoError(t, errs.Err())

	errs.Add("time", "must be on a slot boundary")
	assert.Error(t, errs.Err())
	assert.Equal(t, "time", errs[0].Field)
}
