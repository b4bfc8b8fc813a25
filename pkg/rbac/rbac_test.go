package rbac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       string
		permission string
		want       bool
	}{
		{RoleUser, PermissionCreateTask, true},
		{RoleUser, PermissionSubmitTask, true},
		{RoleUser, PermissionApproveTask, false},
		{RoleUser, PermissionDeleteTask, false},
		{RoleUser, PermissionAdminPanel, false},
		{RoleAdmin, PermissionApproveTask, true},
		{RoleAdmin, PermissionRejectTask, true},
		{RoleAdmin, PermissionDeleteTask, true},
		{RoleAdmin, PermissionAdminPanel, true},
		{"guest", PermissionReadTask, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission), "%s/%s", tt.role, tt.permission)
	}
}

func TestCheckPermissionReturnsTypedError(t *testing.T) {
	assert.NoError(t, CheckPermission("1", RoleAdmin, PermissionDeleteTask))

	err := CheckPermission("2", RoleUser, PermissionDeleteTask)
	require.Error(t, err)

	var denied *PermissionDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, "2", denied.UserID)
	assert.Equal(t, PermissionDeleteTask, denied.Permission)
}
