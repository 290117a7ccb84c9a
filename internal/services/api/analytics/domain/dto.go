// Package domain holds DTOs and window arithmetic for analytics
package domain

// Named ranges accepted by the query DTOs
// Dates are ISO8601 without timezone

// Query selects a window and optional filters, shared by every endpoint
type Query struct {
	// Range names a window anchored at the current instant
	Range string `json:"range,omitempty" validate:"omitempty,oneof=day week month quarter year" example:"month"`

	// Start and End, when both given, override Range (inclusive dates)
	Start string `json:"start,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2026-08-01"`
	End   string `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2026-08-31"`

	Filters Filters `json:"filters,omitempty"`
}

// Filters narrow every statistic identically across both windows
type Filters struct {
	Region   string `json:"region,omitempty" validate:"omitempty,oneof=North Central South Other" example:"South"`
	Category string `json:"category,omitempty" validate:"omitempty,min=1,max=100" example:"main"`
}

// PercentChange compares the current window against the previous one
type PercentChange struct {
	Orders  float64 `json:"orders" example:"25.0"`
	Revenue float64 `json:"revenue" example:"25.0"`
	AOV     float64 `json:"aov" example:"0.0"`
}

// OrderStats summarizes order volume and revenue for one window
type OrderStats struct {
	TotalOrders       int64         `json:"total_orders" example:"10"`
	TotalRevenue      float64       `json:"total_revenue" example:"500"`
	AverageOrderValue float64       `json:"average_order_value" example:"50"`
	CompletedOrders   int64         `json:"completed_orders" example:"9"`
	CancelledOrders   int64         `json:"cancelled_orders" example:"1"`
	PercentChange     PercentChange `json:"percent_change"`
}

// CustomerChange compares customer counters against the previous window
type CustomerChange struct {
	Total  float64 `json:"total" example:"12.5"`
	New    float64 `json:"new" example:"0.0"`
	Repeat float64 `json:"repeat" example:"-10.0"`
}

// CustomerStats summarizes customer activity for one window
type CustomerStats struct {
	TotalCustomers  int64          `json:"total_customers" example:"40"`
	NewCustomers    int64          `json:"new_customers" example:"8"`
	RepeatCustomers int64          `json:"repeat_customers" example:"32"`
	PercentChange   CustomerChange `json:"percent_change"`
}

// DishRow is one item's sales in the window
type DishRow struct {
	ID      string  `json:"id" example:"m-pho-chay"`
	Name    string  `json:"name" example:"Pho Chay"`
	Count   int64   `json:"count" example:"42"`
	Revenue float64 `json:"revenue" example:"2730000"`
}

// TrendPoint is one gap-free bucket of the order trend
type TrendPoint struct {
	Date    string  `json:"date" example:"2026-08-01"`
	Orders  int64   `json:"orders" example:"3"`
	Revenue float64 `json:"revenue" example:"180000"`
}

// RegionRow is one region's order volume in the window
type RegionRow struct {
	Region  string  `json:"region" example:"South"`
	Count   int64   `json:"count" example:"17"`
	Revenue float64 `json:"revenue" example:"1100000"`
}
