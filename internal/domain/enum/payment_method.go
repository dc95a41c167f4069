package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is the closed set of tender kinds the register accepts.
// Cash is the only kind that lands in the drawer; the rest are digital.
type PaymentMethod int

const (
	PaymentMethodUnknown PaymentMethod = 0
	PaymentMethodCash    PaymentMethod = 1
	PaymentMethodCard    PaymentMethod = 2
	PaymentMethodYape    PaymentMethod = 3
	PaymentMethodPlin    PaymentMethod = 4
)

// PaymentMethods lists every valid method in display order.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodYape,
	PaymentMethodPlin,
}

func (m PaymentMethod) String() string {
	switch m {
	case PaymentMethodCash:
		return "cash"
	case PaymentMethodCard:
		return "card"
	case PaymentMethodYape:
		return "yape"
	case PaymentMethodPlin:
		return "plin"
	case PaymentMethodUnknown:
		return "unknown"
	}
	return "unknown"
}

// IsValid reports whether m is one of the accepted tender kinds.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodYape, PaymentMethodPlin:
		return true
	case PaymentMethodUnknown:
		return false
	}
	return false
}

// IsCash reports whether the tender is physical cash counted in the drawer.
func (m PaymentMethod) IsCash() bool {
	switch m {
	case PaymentMethodCash:
		return true
	case PaymentMethodCard, PaymentMethodYape, PaymentMethodPlin, PaymentMethodUnknown:
		return false
	}
	return false
}

// ParsePaymentMethod maps a method name to its enum value.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return PaymentMethodCash, nil
	case "card":
		return PaymentMethodCard, nil
	case "yape":
		return PaymentMethodYape, nil
	case "plin":
		return PaymentMethodPlin, nil
	}
	return PaymentMethodUnknown, fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMethod(i)
		return nil
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodUnknown
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	}
	return nil
}
