package entity

import (
	"time"

	"github.com/sangkips/posgo-api/internal/domain/enum"
)

// StoreSettings holds the store identity and the tax rules applied at checkout.
// There is a single row; ID is always StoreSettingsID.
type StoreSettings struct {
	ID            int          `gorm:"primaryKey;autoIncrement:false" json:"-"`
	StoreName     string       `gorm:"size:255;not null" json:"store_name"`
	RUC           string       `gorm:"size:20;column:ruc" json:"ruc"`
	Address       string       `gorm:"size:255" json:"address"`
	Phone         string       `gorm:"size:50" json:"phone"`
	TaxRate       float64      `gorm:"not null;default:0" json:"tax_rate"`
	TaxType       enum.TaxType `gorm:"not null" json:"tax_type"`
	Currency      string       `gorm:"size:3;not null" json:"currency"`
	AllowOversell bool         `gorm:"not null" json:"allow_oversell"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// StoreSettingsID is the primary key of the only store_settings row
const StoreSettingsID = 1

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}

// PricesIncludeTax reports whether shelf prices already carry tax
func (s *StoreSettings) PricesIncludeTax() bool {
	return s.TaxType.PricesIncludeTax()
}
