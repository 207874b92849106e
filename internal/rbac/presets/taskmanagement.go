package presets

import "task-service/internal/rbac"

const (
	RoleNormal     rbac.Role = "NORMAL"
	RoleModerator  rbac.Role = "MODERATOR"
	RoleSuperAdmin rbac.Role = "SUPER_ADMIN"

	PermTodosOwnView      rbac.Permission = "todos.own.view"
	PermTodosOwnCreate    rbac.Permission = "todos.own.create"
	PermTodosOwnEdit      rbac.Permission = "todos.own.edit"
	PermTodosOwnDelete    rbac.Permission = "todos.own.delete"
	PermTodosOthersView   rbac.Permission = "todos.others.view"
	PermTodosOthersBan    rbac.Permission = "todos.others.ban"
	PermFoldersOwnView    rbac.Permission = "folders.own.view"
	PermFoldersOwnCreate  rbac.Permission = "folders.own.create"
	PermFoldersOwnEdit    rbac.Permission = "folders.own.edit"
	PermFoldersOwnDelete  rbac.Permission = "folders.own.delete"
	PermFoldersOthersView rbac.Permission = "folders.others.view"
	PermUsersView         rbac.Permission = "users.view"
	PermUsersManage       rbac.Permission = "users.manage"
)

var ownPermissions = []rbac.Permission{
	PermTodosOwnView,
	PermTodosOwnCreate,
	PermTodosOwnEdit,
	PermTodosOwnDelete,
	PermFoldersOwnView,
	PermFoldersOwnCreate,
	PermFoldersOwnEdit,
	PermFoldersOwnDelete,
}

var moderationPermissions = []rbac.Permission{
	PermTodosOthersView,
	PermTodosOthersBan,
	PermFoldersOthersView,
	PermUsersView,
}

// TaskManagement returns the three-tier role model of the task service.
// Each tier holds every permission of the tier below it.
func TaskManagement() rbac.Config {
	normal := append([]rbac.Permission(nil), ownPermissions...)
	moderator := append(append([]rbac.Permission(nil), normal...), moderationPermissions...)
	superAdmin := append(append([]rbac.Permission(nil), moderator...), PermUsersManage)

	return rbac.Config{
		Roles: []rbac.RoleDefinition{
			{Name: RoleNormal, Level: 1, Description: "Manages own todos and folders"},
			{Name: RoleModerator, Level: 2, Description: "Views and moderates other users' content"},
			{Name: RoleSuperAdmin, Level: 3, Description: "Manages users and roles"},
		},
		Permissions: superAdmin,
		Grants: map[rbac.Role][]rbac.Permission{
			RoleNormal:     normal,
			RoleModerator:  moderator,
			RoleSuperAdmin: superAdmin,
		},
		Protected: []rbac.Role{RoleSuperAdmin},
	}
}
