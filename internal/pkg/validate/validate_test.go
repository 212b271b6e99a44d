package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type otpForm struct {
	Phone string `json:"phoneNumber" validate:"required,notblank"`
	OTP   string `json:"otp" validate:"required,notblank,numeric"`
	Kind  string `json:"kind" validate:"omitempty,oneof=sms call"`
	Count int    `json:"count" validate:"min=0"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(otpForm{Phone: "9876543210", OTP: "123456", Kind: "sms"}))
}

func TestStruct_CollectsEveryField(t *testing.T) {
	err := Struct(otpForm{Phone: "   ", OTP: "12a4", Kind: "fax", Count: -1})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 4)
	assert.Equal(t, FieldError{Field: "phoneNumber", Message: "phoneNumber is required"}, verr.Fields[0])
	assert.Equal(t, "otp", verr.Fields[1].Field)
	assert.Equal(t, "otp must contain digits only", verr.Fields[1].Message)
	assert.Equal(t, "kind must be one of: sms call", verr.Fields[2].Message)
	assert.Equal(t, "count must be at least 0", verr.Fields[3].Message)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestRequired(t *testing.T) {
	var verr *Error
	require.ErrorAs(t, Required("password"), &verr)
	assert.Equal(t, "password", verr.Fields[0].Field)
}
