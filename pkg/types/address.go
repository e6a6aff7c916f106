package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a delivery address snapshot. Orders copy it by value at
// placement time so later edits to the buyer's address book never alter a
// past order.
type Address struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// Validate checks the fields required to deliver an order.
func (a Address) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("address: missing name")
	}
	if strings.TrimSpace(a.Line1) == "" {
		return fmt.Errorf("address: missing line1")
	}
	if strings.TrimSpace(a.Phone) == "" {
		return fmt.Errorf("address: missing phone")
	}
	return nil
}

// Value marshals Address into a JSONB column.
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan decodes a JSONB column into Address.
func (a *Address) Scan(value interface{}) error {
	return scanJSON(value, a, "address")
}

// AddressList is the buyer's stored address book.
type AddressList []Address

// Value marshals the list into a JSONB column.
func (l AddressList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]Address{})
	}
	return json.Marshal(l)
}

// Scan decodes a JSONB column into AddressList.
func (l *AddressList) Scan(value interface{}) error {
	return scanJSON(value, l, "address list")
}

func scanJSON(value interface{}, dest any, label string) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("%s: unsupported scan type %T", label, value)
	}
}
