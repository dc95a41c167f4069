package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TaxType decides whether shelf prices already carry tax.
// Inclusive prices have the tax extracted at checkout; exclusive prices get it added on top.
type TaxType int

const (
	TaxTypeExclusive TaxType = 0
	TaxTypeInclusive TaxType = 1
)

func (t TaxType) String() string {
	names := [...]string{"Exclusive", "Inclusive"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Exclusive"
	}
	return names[t]
}

// PricesIncludeTax reports whether the mode is tax-inclusive.
func (t TaxType) PricesIncludeTax() bool {
	return t == TaxTypeInclusive
}

// TaxTypeFromInclusive converts the boolean settings flag into a TaxType.
func TaxTypeFromInclusive(inclusive bool) TaxType {
	if inclusive {
		return TaxTypeInclusive
	}
	return TaxTypeExclusive
}

func (t TaxType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TaxType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = TaxType(i)
		return nil
	}
	switch str {
	case "Exclusive", "exclusive":
		*t = TaxTypeExclusive
	case "Inclusive", "inclusive":
		*t = TaxTypeInclusive
	}
	return nil
}

func (t TaxType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TaxType) Scan(value interface{}) error {
	if value == nil {
		*t = TaxTypeExclusive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = TaxType(v)
	case int:
		*t = TaxType(v)
	}
	return nil
}
