package request

// UpdateSettingsRequest changes the store identity and tax rules
type UpdateSettingsRequest struct {
	StoreName        *string  `json:"store_name" binding:"omitempty,min=1,max=255"`
	RUC              *string  `json:"ruc" binding:"omitempty,max=20"`
	Address          *string  `json:"address" binding:"omitempty,max=255"`
	Phone            *string  `json:"phone" binding:"omitempty,max=50"`
	TaxRate          *float64 `json:"tax_rate" binding:"omitempty,gte=0,lte=1"`
	PricesIncludeTax *bool    `json:"prices_include_tax"`
	Currency         *string  `json:"currency" binding:"omitempty,len=3"`
	AllowOversell    *bool    `json:"allow_oversell"`
}
