// Package stats computes the dashboard aggregates shown to vendors and
// admins. Everything here is pure arithmetic over loaded orders.
package stats

import (
	"time"

	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
)

// VendorStats is one shop's dashboard summary.
type VendorStats struct {
	TotalOrders     int     `json:"total_orders"`
	PendingOrders   int     `json:"pending_orders"`
	CompletedOrders int     `json:"completed_orders"`
	Revenue         int     `json:"revenue"`
	AvgOrderValue   int     `json:"avg_order_value"`
	MonthlyGrowth   float64 `json:"monthly_growth"`
}

// AdminOverview is the platform-wide summary.
type AdminOverview struct {
	TotalOrders     int     `json:"total_orders"`
	PendingOrders   int     `json:"pending_orders"`
	CompletedOrders int     `json:"completed_orders"`
	Revenue         int     `json:"revenue"`
	MonthlyGrowth   float64 `json:"monthly_growth"`
	TotalShops      int     `json:"total_shops"`
	VerifiedShops   int     `json:"verified_shops"`
	PendingShops    int     `json:"pending_shops"`
}

// countsAsRevenue is true for order states whose money has been or will
// be collected. Cancelled orders never count.
func countsAsRevenue(status enums.OrderStatus) bool {
	switch status {
	case enums.OrderStatusDelivered, enums.OrderStatusCompleted:
		return true
	default:
		return false
	}
}

// ShopRevenue is the portion of one order's item lines belonging to the
// shop. An order can span shops, so the order total alone would
// over-credit every shop involved.
func ShopRevenue(order models.Order, shopID uuid.UUID) int {
	total := 0
	for _, item := range order.Items {
		if item.ShopID != shopID {
			continue
		}
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 || item.UnitPrice < 0 {
			continue
		}
		unit := item.UnitPrice
		for _, v := range item.Variations {
			if v.Price > 0 {
				unit += v.Price
			}
		}
		total += unit * qty
	}
	return total
}

// GrowthRate is the month-over-month change in percent. A zero previous
// month reads as 100% when anything happened this month, 0% otherwise.
func GrowthRate(current, previous int) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}

// monthOf truncates to the first instant of the order's month.
func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// ComputeVendorStats reduces a shop's orders into its dashboard summary.
func ComputeVendorStats(orders []models.Order, shopID uuid.UUID, now time.Time) VendorStats {
	stats := VendorStats{}
	thisMonth := monthOf(now)
	lastMonth := monthOf(thisMonth.AddDate(0, 0, -1))

	currentCount, previousCount := 0, 0
	for _, order := range orders {
		stats.TotalOrders++

		switch order.Status {
		case enums.OrderStatusPending:
			stats.PendingOrders++
		case enums.OrderStatusCompleted, enums.OrderStatusDelivered:
			stats.CompletedOrders++
		}

		if countsAsRevenue(order.Status) {
			stats.Revenue += ShopRevenue(order, shopID)
		}

		placed := monthOf(order.CreatedAt)
		switch {
		case placed.Equal(thisMonth):
			currentCount++
		case placed.Equal(lastMonth):
			previousCount++
		}
	}

	if stats.CompletedOrders > 0 {
		stats.AvgOrderValue = stats.Revenue / stats.CompletedOrders
	}
	stats.MonthlyGrowth = GrowthRate(currentCount, previousCount)
	return stats
}

// ComputeAdminOverview reduces all orders and shops into the platform
// summary. Revenue here uses full order totals; the admin view is not
// shop-scoped.
func ComputeAdminOverview(orders []models.Order, shops []models.Shop, now time.Time) AdminOverview {
	overview := AdminOverview{}
	thisMonth := monthOf(now)
	lastMonth := monthOf(thisMonth.AddDate(0, 0, -1))

	currentCount, previousCount := 0, 0
	for _, order := range orders {
		overview.TotalOrders++

		switch order.Status {
		case enums.OrderStatusPending:
			overview.PendingOrders++
		case enums.OrderStatusCompleted, enums.OrderStatusDelivered:
			overview.CompletedOrders++
		}

		if countsAsRevenue(order.Status) {
			overview.Revenue += order.Total
		}

		placed := monthOf(order.CreatedAt)
		switch {
		case placed.Equal(thisMonth):
			currentCount++
		case placed.Equal(lastMonth):
			previousCount++
		}
	}
	overview.MonthlyGrowth = GrowthRate(currentCount, previousCount)

	for _, shop := range shops {
		overview.TotalShops++
		switch shop.Status {
		case enums.ShopStatusVerified:
			overview.VerifiedShops++
		case enums.ShopStatusPendingApproval:
			overview.PendingShops++
		}
	}

	return overview
}
