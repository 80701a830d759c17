package rbac

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type UpdateRolePermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" binding:"required"`
}
