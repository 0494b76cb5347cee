package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RolePublisher.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestIsOwnerOrAdmin(t *testing.T) {
	owner := &User{ID: "u1", Role: RolePublisher}
	other := &User{ID: "u2", Role: RolePublisher}
	root := &User{ID: "u3", Role: RoleAdmin}

	assert.True(t, IsOwnerOrAdmin(owner, "u1"))
	assert.False(t, IsOwnerOrAdmin(other, "u1"))
	assert.True(t, IsOwnerOrAdmin(root, "u1"))
	assert.False(t, IsOwnerOrAdmin(nil, "u1"))
}

func TestUserSerializationHidesSecrets(t *testing.T) {
	hash := "sha256-of-reset-token"
	exp := time.Now().Add(10 * time.Minute)
	u := &User{
		ID:                  "u1",
		Name:                "John Doe",
		Email:               "john@example.com",
		Role:                RoleUser,
		Password:            "$2a$10$bcrypt-hash",
		ResetPasswordToken:  &hash,
		ResetPasswordExpire: &exp,
	}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Contains(t, out, "email")
	assert.NotContains(t, string(raw), "bcrypt-hash")
	assert.NotContains(t, string(raw), "reset-token")
}
