package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderReportRow is one order line as read for reporting.
type OrderReportRow struct {
	OrderID       int
	CustomerID    int
	CustomerName  string
	CarrierID     *int
	CarrierName   string
	Status        string
	Total         decimal.Decimal
	Discount      decimal.Decimal
	CarrierRating *int
	CreatedAt     time.Time
	ProductID     int
	ProductName   string
	Quantity      decimal.Decimal
	LineTotal     decimal.Decimal
}

type ProductSales struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type DailySales struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type CustomerSales struct {
	CustomerID int             `json:"customer_id"`
	Name       string          `json:"name"`
	Orders     int             `json:"orders"`
	Spent      decimal.Decimal `json:"spent"`
}

type CarrierPerformance struct {
	CarrierID     int             `json:"carrier_id"`
	Name          string          `json:"name"`
	Deliveries    int             `json:"deliveries"`
	RatedOrders   int             `json:"rated_orders"`
	AverageRating decimal.Decimal `json:"average_rating"`
}

type SalesReport struct {
	From              time.Time            `json:"from"`
	To                time.Time            `json:"to"`
	OrderCount        int                  `json:"order_count"`
	CancelledCount    int                  `json:"cancelled_count"`
	Revenue           decimal.Decimal      `json:"revenue"`
	DiscountTotal     decimal.Decimal      `json:"discount_total"`
	AverageOrderValue decimal.Decimal      `json:"average_order_value"`
	ByProduct         []ProductSales       `json:"by_product"`
	ByDay             []DailySales         `json:"by_day"`
	TopCustomers      []CustomerSales      `json:"top_customers"`
	Carriers          []CarrierPerformance `json:"carriers"`
}

type Dashboard struct {
	TodayRevenue     decimal.Decimal `json:"today_revenue"`
	TodayOrders      int             `json:"today_orders"`
	PendingOrders    int             `json:"pending_orders"`
	LowStockProducts []ProductView   `json:"low_stock_products"`
	UnreadMessages   int             `json:"unread_messages"`
	CustomerCount    int             `json:"customer_count"`
}
