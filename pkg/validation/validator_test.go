package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

func validate(t *testing.T, v any) error {
	t.Helper()
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return engine.Struct(v)
}

func TestInitAliasesAndTagNames(t *testing.T) {
	Init()

	err := validate(t, registerPayload{
		Name:     "John Doe",
		Email:    "not-an-email",
		Password: "123",
		Role:     "superuser",
	})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters", details["password"])
	assert.Equal(t, "must be either user or publisher", details["role"])

	assert.NoError(t, validate(t, registerPayload{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "123456",
		Role:     "publisher",
	}))
}

func TestJoinMessagesStableOrder(t *testing.T) {
	msg := JoinMessages(map[string]string{
		"password": "must be at least 6 characters",
		"email":    "is required",
	})
	assert.Equal(t, "email is required, password must be at least 6 characters", msg)

	assert.Equal(t, "invalid payload", JoinMessages(nil))
}

func TestToDetailsNonValidatorError(t *testing.T) {
	details := ToDetails(assert.AnError)
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, details)
	assert.Nil(t, ToDetails(nil))
}
