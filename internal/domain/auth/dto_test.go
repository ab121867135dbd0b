package auth

import (
	"testing"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequest_Validate(t *testing.T) {
	valid := LoginRequest{Email: "hr@example.com", Password: "secret"}
	assert.NoError(t, valid.Validate())

	invalid := LoginRequest{Email: "not-an-email"}
	err := invalid.Validate()

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}
