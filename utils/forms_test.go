package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testForm struct {
	Username string     `form:"username" json:"username" binding:"required,max=5"`
	Password string     `form:"password" json:"password" binding:"required,min=3"`
	Items    []testItem `json:"items" binding:"omitempty,max=1,dive"`
}

type testItem struct {
	ID uint `json:"id" binding:"required"`
}

func TestToFormErrors_FieldNames(t *testing.T) {
	RegisterValidatorTagNames()

	err := binding.Validator.ValidateStruct(&testForm{})
	require.Error(t, err)

	errs := ToFormErrors(err)
	assert.Equal(t, []string{MsgRequired}, errs["username"])
	assert.Equal(t, []string{MsgRequired}, errs["password"])
}

func TestToFormErrors_Lengths(t *testing.T) {
	RegisterValidatorTagNames()

	err := binding.Validator.ValidateStruct(&testForm{Username: "abcdefg", Password: "ab"})
	require.Error(t, err)

	errs := ToFormErrors(err)
	require.Len(t, errs["username"], 1)
	assert.True(t, strings.Contains(errs["username"][0], "5"))
	assert.True(t, strings.Contains(errs["username"][0], "7"))
	require.Len(t, errs["password"], 1)
	assert.True(t, strings.Contains(errs["password"][0], "3"))
}

func TestToFormErrors_NestedNamespace(t *testing.T) {
	RegisterValidatorTagNames()

	err := binding.Validator.ValidateStruct(&testForm{Username: "bob", Password: "secret", Items: []testItem{{}}})
	require.Error(t, err)

	errs := ToFormErrors(err)
	assert.Equal(t, []string{MsgRequired}, errs["items[0].id"])
}

func TestToFormErrors_NonValidationError(t *testing.T) {
	errs := ToFormErrors(errors.New("unexpected EOF"))
	assert.Equal(t, []string{MsgInvalid}, errs[NonFieldErrors])

	assert.Empty(t, ToFormErrors(nil))
}

func TestFormErrors_Add(t *testing.T) {
	errs := FormErrors{}
	errs.Add("password", MsgInvalidPassword)
	errs.Add("password", MsgRequired)
	assert.Equal(t, []string{MsgInvalidPassword, MsgRequired}, errs["password"])
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.True(t, CheckPasswordHash("secret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))

	// out of range cost falls back to the default
	hash, err = HashPassword("secret", 100)
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret", hash))
}

func TestHashPassword_RejectsOverlongBytes(t *testing.T) {
	assert.False(t, PasswordTooLong(strings.Repeat("a", MaxPasswordBytes)))
	assert.True(t, PasswordTooLong(strings.Repeat("密", 30)))

	_, err := HashPassword(strings.Repeat("密", 30), 4)
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}
