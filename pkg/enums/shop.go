package enums

import "fmt"

// ShopStatus captures the vendor moderation workflow.
type ShopStatus string

const (
	ShopStatusPendingApproval ShopStatus = "pending_approval"
	ShopStatusVerified        ShopStatus = "verified"
	ShopStatusSuspended       ShopStatus = "suspended"
)

var validShopStatuses = []ShopStatus{
	ShopStatusPendingApproval,
	ShopStatusVerified,
	ShopStatusSuspended,
}

// String implements fmt.Stringer.
func (s ShopStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShopStatus.
func (s ShopStatus) IsValid() bool {
	for _, candidate := range validShopStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShopStatus converts raw input into a ShopStatus.
func ParseShopStatus(value string) (ShopStatus, error) {
	for _, candidate := range validShopStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shop status %q", value)
}
