package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleTokenFromClaim_Admin(t *testing.T) {
	token, ok := RoleTokenFromClaim("admin", "admin-1")

	assert.True(t, ok)
	assert.Equal(t, NewAdminToken("admin-1"), token)
}

func TestRoleTokenFromClaim_ClientService(t *testing.T) {
	token, ok := RoleTokenFromClaim("client_service", "client-1")

	assert.True(t, ok)
	assert.Equal(t, NewClientServiceToken("client-1"), token)
}

func TestRoleTokenFromClaim_UnknownRole(t *testing.T) {
	_, ok := RoleTokenFromClaim("superuser", "whoever")

	assert.False(t, ok)
}

func TestRoleClaimValue(t *testing.T) {
	assert.Equal(t, "admin", RoleClaimValue(RoleAdmin))
	assert.Equal(t, "client_service", RoleClaimValue(RoleClientService))
}
