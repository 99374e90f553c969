package response

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestStatusOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := StatusOKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
}

func TestFieldError(t *testing.T) {
	resp := FieldError("amount", "amount must be greater than zero")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "field amount: amount must be greater than zero", resp.Error)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		Username string  `validate:"required,alphanum"`
		Email    string  `validate:"required,email"`
		UserUID  string  `validate:"required,uuid"`
		Amount   float64 `validate:"gt=0"`
		Date     string  `validate:"required,datetime=2006-01-02"`
	}

	v := validator.New()
	ts := TestStruct{
		Username: "!!!",
		Email:    "not-an-email",
		UserUID:  "not-a-uuid",
		Amount:   -5,
		Date:     "10.02.2024",
	}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)

	errMsg := resp.Error
	assert.Contains(t, errMsg, "field Username can contain only numbers and letters")
	assert.Contains(t, errMsg, "field Email must be a valid email address")
	assert.Contains(t, errMsg, "field UserUID can contain only uuid")
	assert.Contains(t, errMsg, "field Amount must be greater than 0")
	assert.Contains(t, errMsg, "field Date can contain only date in format 2006-01-02")
}

func TestValidationErrorRequired(t *testing.T) {
	type TestStruct struct {
		Name string `validate:"required"`
	}

	v := validator.New()
	ts := TestStruct{}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Name is a required field")
}
