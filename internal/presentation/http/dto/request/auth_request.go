package request

import "github.com/google/uuid"

// IssueTokenRequest asks for a register token for a cashier
type IssueTokenRequest struct {
	CashierID *uuid.UUID `json:"cashier_id"`
	Name      string     `json:"name" binding:"required,min=2,max=255"`
	Role      string     `json:"role" binding:"required,oneof=cashier manager"`
}
