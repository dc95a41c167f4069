package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"gorm.io/gorm"
)

// CashShift is one cash drawer session, from opening float to closing count
type CashShift struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Status            enum.ShiftStatus `gorm:"not null;index" json:"status"`
	OpenedBy          *uuid.UUID       `gorm:"type:uuid" json:"opened_by,omitempty"`
	StartTime         time.Time        `gorm:"not null" json:"start_time"`
	EndTime           *time.Time       `json:"end_time,omitempty"`
	StartAmount       float64          `gorm:"not null" json:"start_amount"`
	EndAmount         *float64         `json:"end_amount,omitempty"`      // counted cash
	ExpectedAmount    *float64         `json:"expected_amount,omitempty"` // computed cash
	TotalSalesCash    float64          `gorm:"not null;default:0" json:"total_sales_cash"`
	TotalSalesDigital float64          `gorm:"not null;default:0" json:"total_sales_digital"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new shift
func (s *CashShift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashShift model
func (CashShift) TableName() string {
	return "cash_shifts"
}

// IsOpen reports whether the drawer is still accepting sales
func (s *CashShift) IsOpen() bool {
	return s.Status == enum.ShiftStatusOpen
}

// Discrepancy is counted minus expected cash. It is only known once the shift is closed.
func (s *CashShift) Discrepancy() *float64 {
	if s.EndAmount == nil || s.ExpectedAmount == nil {
		return nil
	}
	d := *s.EndAmount - *s.ExpectedAmount
	return &d
}

// cashShiftJSON mirrors CashShift with the derived discrepancy
type cashShiftJSON struct {
	ID                uuid.UUID        `json:"id"`
	Status            enum.ShiftStatus `json:"status"`
	OpenedBy          *uuid.UUID       `json:"opened_by,omitempty"`
	StartTime         time.Time        `json:"start_time"`
	EndTime           *time.Time       `json:"end_time,omitempty"`
	StartAmount       float64          `json:"start_amount"`
	EndAmount         *float64         `json:"end_amount,omitempty"`
	ExpectedAmount    *float64         `json:"expected_amount,omitempty"`
	Discrepancy       *float64         `json:"discrepancy,omitempty"`
	TotalSalesCash    float64          `json:"total_sales_cash"`
	TotalSalesDigital float64          `json:"total_sales_digital"`
}

// MarshalJSON adds the discrepancy to the serialized shift
func (s CashShift) MarshalJSON() ([]byte, error) {
	return json.Marshal(cashShiftJSON{
		ID:                s.ID,
		Status:            s.Status,
		OpenedBy:          s.OpenedBy,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		StartAmount:       s.StartAmount,
		EndAmount:         s.EndAmount,
		ExpectedAmount:    s.ExpectedAmount,
		Discrepancy:       s.Discrepancy(),
		TotalSalesCash:    s.TotalSalesCash,
		TotalSalesDigital: s.TotalSalesDigital,
	})
}

// UnmarshalJSON restores a shift serialized with MarshalJSON
func (s *CashShift) UnmarshalJSON(data []byte) error {
	var aux cashShiftJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = CashShift{
		ID:                aux.ID,
		Status:            aux.Status,
		OpenedBy:          aux.OpenedBy,
		StartTime:         aux.StartTime,
		EndTime:           aux.EndTime,
		StartAmount:       aux.StartAmount,
		EndAmount:         aux.EndAmount,
		ExpectedAmount:    aux.ExpectedAmount,
		TotalSalesCash:    aux.TotalSalesCash,
		TotalSalesDigital: aux.TotalSalesDigital,
	}
	return nil
}

// CashMovement is an append-only entry in a shift's cash ledger
type CashMovement struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ShiftID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"shift_id"`
	Type        enum.MovementType `gorm:"not null" json:"type"`
	Amount      float64           `gorm:"not null" json:"amount"`
	Description string            `gorm:"size:255" json:"description"`
	CreatedAt   time.Time         `gorm:"index" json:"timestamp"`
}

// BeforeCreate generates a UUID before creating a new movement
func (m *CashMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashMovement model
func (CashMovement) TableName() string {
	return "cash_movements"
}

// RegisterState is the single row holding the active shift pointer
type RegisterState struct {
	ID            int        `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ActiveShiftID *uuid.UUID `gorm:"type:uuid" json:"active_shift_id"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// RegisterStateID is the primary key of the only register_state row
const RegisterStateID = 1

// TableName returns the table name for the RegisterState model
func (RegisterState) TableName() string {
	return "register_state"
}
