package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleRank(t *testing.T) {
	assert.Greater(t, RoleRank(RoleSuperAdmin), RoleRank(RoleAdmin))
	assert.Greater(t, RoleRank(RoleAdmin), RoleRank(RoleSupervisor))
	assert.Greater(t, RoleRank(RoleSupervisor), RoleRank(RoleUser))
	assert.Equal(t, -1, RoleRank("BOGUS"))
}

func TestRolePredicates(t *testing.T) {
	assert.True(t, IsAdminOrAbove(RoleSuperAdmin))
	assert.True(t, IsAdminOrAbove(RoleAdmin))
	assert.False(t, IsAdminOrAbove(RoleSupervisor))

	assert.True(t, IsSupervisorOrAbove(RoleSupervisor))
	assert.False(t, IsSupervisorOrAbove(RoleUser))
	assert.False(t, IsSupervisorOrAbove("BOGUS"))
}
