package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// PaymentMethod represents how a payment was tendered
type PaymentMethod int

const (
	PaymentMethodCash     PaymentMethod = 0
	PaymentMethodDebit    PaymentMethod = 1
	PaymentMethodCredit   PaymentMethod = 2
	PaymentMethodQR       PaymentMethod = 3
	PaymentMethodTransfer PaymentMethod = 4
)

func (m PaymentMethod) String() string {
	names := [...]string{"Cash", "Debit", "Credit", "QR", "Transfer"}
	if int(m) < 0 || int(m) >= len(names) {
		return "Cash"
	}
	return names[m]
}

// ParsePaymentMethod maps a method name to its enum value, ignoring case;
// the second return is false for unknown names.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(s) {
	case "cash":
		return PaymentMethodCash, true
	case "debit":
		return PaymentMethodDebit, true
	case "credit":
		return PaymentMethodCredit, true
	case "qr":
		return PaymentMethodQR, true
	case "transfer":
		return PaymentMethodTransfer, true
	}
	return PaymentMethodCash, false
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
	if parsed, ok := ParsePaymentMethod(str); ok {
		*m = parsed
	}
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodCash
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
