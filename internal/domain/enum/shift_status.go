package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ShiftStatus is the state of a cash drawer session.
type ShiftStatus int

const (
	ShiftStatusClosed ShiftStatus = 0
	ShiftStatusOpen   ShiftStatus = 1
)

func (s ShiftStatus) String() string {
	switch s {
	case ShiftStatusOpen:
		return "OPEN"
	case ShiftStatusClosed:
		return "CLOSED"
	}
	return "CLOSED"
}

func (s ShiftStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ShiftStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ShiftStatus(i)
		return nil
	}
	switch str {
	case "OPEN":
		*s = ShiftStatusOpen
	case "CLOSED":
		*s = ShiftStatusClosed
	}
	return nil
}

func (s ShiftStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ShiftStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ShiftStatusClosed
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ShiftStatus(v)
	case int:
		*s = ShiftStatus(v)
	}
	return nil
}
