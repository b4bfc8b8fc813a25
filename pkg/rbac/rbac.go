package rbac

import "fmt"

// 权限常量
const (
	PermissionReadTask   = "task:read"
	PermissionCreateTask = "task:create"
	PermissionUpdateTask = "task:update"
	PermissionSubmitTask = "task:submit"

	// 管理员权限
	PermissionReadAllTasks = "task:read_all"
	PermissionApproveTask  = "task:approve"
	PermissionRejectTask   = "task:reject"
	PermissionDeleteTask   = "task:delete"
	PermissionAdminPanel   = "admin:panel"
)

// 角色常量
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 角色权限映射
var rolePermissions = map[string][]string{
	RoleUser: {
		PermissionReadTask,
		PermissionCreateTask,
		PermissionUpdateTask,
		PermissionSubmitTask,
	},
	RoleAdmin: {
		PermissionReadTask,
		PermissionCreateTask,
		PermissionUpdateTask,
		PermissionSubmitTask,
		PermissionReadAllTasks,
		PermissionApproveTask,
		PermissionRejectTask,
		PermissionDeleteTask,
		PermissionAdminPanel,
	},
}

// HasPermission 检查角色是否有指定权限
func HasPermission(role, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission 检查用户是否有指定权限（返回错误而不是布尔值，便于处理）
func CheckPermission(userID, role, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			UserID:     userID,
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

// PermissionDeniedError 表示权限不足的错误
type PermissionDeniedError struct {
	UserID     string
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("insufficient permissions: role %q lacks %s", e.Role, e.Permission)
}
