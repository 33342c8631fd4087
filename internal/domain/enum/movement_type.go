package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// MovementType classifies a stock ledger entry
type MovementType int

const (
	MovementTypeIn         MovementType = 0
	MovementTypeOut        MovementType = 1
	MovementTypeAdjustment MovementType = 2
	MovementTypeReturn     MovementType = 3
)

func (t MovementType) String() string {
	names := [...]string{"In", "Out", "Adjustment", "Return"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Adjustment"
	}
	return names[t]
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
	switch str {
	case "In":
		*t = MovementTypeIn
	case "Out":
		*t = MovementTypeOut
	case "Adjustment":
		*t = MovementTypeAdjustment
	case "Return":
		*t = MovementTypeReturn
	}
	return nil
}

func (t MovementType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *MovementType) Scan(value interface{}) error {
	if value == nil {
		*t = MovementTypeAdjustment
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
