package enums

import "fmt"

// OrderStatus captures the order lifecycle. Status is the only field of an
// order that changes after creation.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// PaymentMethod enumerates order payment methods. Only cash on delivery is
// supported.
type PaymentMethod string

const (
	PaymentMethodCOD PaymentMethod = "cod"
)

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCOD
}

// DeliveryTiming distinguishes immediate from scheduled delivery.
type DeliveryTiming string

const (
	DeliveryTimingASAP      DeliveryTiming = "asap"
	DeliveryTimingScheduled DeliveryTiming = "scheduled"
)

// IsValid reports whether the value is a known DeliveryTiming.
func (t DeliveryTiming) IsValid() bool {
	return t == DeliveryTimingASAP || t == DeliveryTimingScheduled
}

// ParseDeliveryTiming converts raw input into a DeliveryTiming.
func ParseDeliveryTiming(value string) (DeliveryTiming, error) {
	switch DeliveryTiming(value) {
	case DeliveryTimingASAP:
		return DeliveryTimingASAP, nil
	case DeliveryTimingScheduled:
		return DeliveryTimingScheduled, nil
	}
	return "", fmt.Errorf("invalid delivery timing %q", value)
}
