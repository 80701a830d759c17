package user

type CreateUserRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Role       string `json:"role" binding:"required,oneof=MEMBER ASSISTANT OFFICER ADMIN"`
	HRRole     string `json:"hr_role" binding:"omitempty,oneof=REVIEWER RELEASER"`
}

type UpdateUserRoleRequest struct {
	Role   string `json:"role" binding:"required,oneof=MEMBER ASSISTANT OFFICER ADMIN"`
	HRRole string `json:"hr_role" binding:"omitempty,oneof=REVIEWER RELEASER"`
}

type UpdateUserStatusRequest struct {
	IsActive bool `json:"is_active"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type ForceResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type UserResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	HRRole     string `json:"hr_role,omitempty"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		EmployeeID: u.EmployeeID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		HRRole:     u.HRRole,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
