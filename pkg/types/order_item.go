package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// OrderItem is the immutable snapshot of one cart line taken at order
// placement. Each item carries its own shop id; an order may span shops.
type OrderItem struct {
	ProductID  uuid.UUID  `json:"product_id"`
	Name       string     `json:"name"`
	UnitPrice  int        `json:"unit_price"`
	Quantity   int        `json:"quantity"`
	Variations Variations `json:"variations"`
	ShopID     uuid.UUID  `json:"shop_id"`
	ShopName   string     `json:"shop_name"`
	Image      *string    `json:"image,omitempty"`
}

// OrderItems is the JSONB-backed item list of an order document.
type OrderItems []OrderItem

// Value marshals the list into a JSONB column.
func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return json.Marshal([]OrderItem{})
	}
	return json.Marshal(o)
}

// Scan decodes a JSONB column into OrderItems.
func (o *OrderItems) Scan(value interface{}) error {
	return scanJSON(value, o, "order items")
}
