package domain

// EnforceRequest lives here so middleware can depend on it without
// importing the rbac package.
type EnforceRequest struct {
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}
