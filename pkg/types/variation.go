package types

import (
	"database/sql/driver"
	"encoding/json"
)

// Variation is a paid product add-on. The price is additive per unit of the
// parent line item.
type Variation struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Variations is the JSONB-backed list of add-ons offered by a product or
// selected on a cart line.
type Variations []Variation

// Value marshals the list into a JSONB column.
func (v Variations) Value() (driver.Value, error) {
	if v == nil {
		return json.Marshal([]Variation{})
	}
	return json.Marshal(v)
}

// Scan decodes a JSONB column into Variations.
func (v *Variations) Scan(value interface{}) error {
	return scanJSON(value, v, "variations")
}
