package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// MovementType classifies an entry in a shift's cash ledger.
// OPEN and CLOSE bookend every shift; IN and OUT are manual drawer adjustments.
type MovementType int

const (
	MovementTypeOpen  MovementType = 0
	MovementTypeIn    MovementType = 1
	MovementTypeOut   MovementType = 2
	MovementTypeClose MovementType = 3
)

func (t MovementType) String() string {
	names := [...]string{"OPEN", "IN", "OUT", "CLOSE"}
	if int(t) < 0 || int(t) >= len(names) {
		return "UNKNOWN"
	}
	return names[t]
}

// IsManual reports whether the movement can be recorded by a cashier mid-shift.
func (t MovementType) IsManual() bool {
	return t == MovementTypeIn || t == MovementTypeOut
}

// ParseMovementType maps a movement name to its enum value.
func ParseMovementType(s string) (MovementType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OPEN":
		return MovementTypeOpen, nil
	case "IN":
		return MovementTypeIn, nil
	case "OUT":
		return MovementTypeOut, nil
	case "CLOSE":
		return MovementTypeClose, nil
	}
	return 0, fmt.Errorf("unknown movement type %q", s)
}

func (t MovementType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *MovementType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = MovementType(i)
		return nil
	}
	parsed, err := ParseMovementType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t MovementType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *MovementType) Scan(value interface{}) error {
	if value == nil {
		*t = MovementTypeOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = MovementType(v)
	case int:
		*t = MovementType(v)
	}
	return nil
}
