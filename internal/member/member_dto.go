package member

type UpsertFundAccountRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	FullName      string  `json:"full_name" binding:"required"`
	TotalBalance  float64 `json:"total_balance" binding:"min=0"`
	VestedBalance float64 `json:"vested_balance" binding:"min=0"`
}

type FundAccountResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	FullName      string  `json:"full_name"`
	TotalBalance  float64 `json:"total_balance"`
	VestedBalance float64 `json:"vested_balance"`
}

func mapToResponse(a FundAccount) FundAccountResponse {
	return FundAccountResponse{
		ID:            a.ID.String(),
		EmployeeID:    a.EmployeeID.String(),
		FullName:      a.FullName,
		TotalBalance:  a.TotalBalance,
		VestedBalance: a.VestedBalance,
	}
}
