package services

import (
	"sort"
	"time"

	"grocery-store/models"

	"github.com/shopspring/decimal"
)

const topCustomerLimit = 10

// BuildSalesReport folds order rows (one per order item) into a report for
// orders created in [from, to). Cancelled orders only contribute to
// CancelledCount.
func BuildSalesReport(rows []models.OrderReportRow, from, to time.Time) models.SalesReport {
	report := models.SalesReport{
		From:              from,
		To:                to,
		Revenue:           decimal.Zero,
		DiscountTotal:     decimal.Zero,
		AverageOrderValue: decimal.Zero,
		ByProduct:         []models.ProductSales{},
		ByDay:             []models.DailySales{},
		TopCustomers:      []models.CustomerSales{},
		Carriers:          []models.CarrierPerformance{},
	}

	seenOrders := map[int]bool{}
	cancelled := map[int]bool{}
	products := map[int]*models.ProductSales{}
	days := map[string]*models.DailySales{}
	customers := map[int]*models.CustomerSales{}
	carriers := map[int]*models.CarrierPerformance{}
	ratingSums := map[int]int{}

	for _, row := range rows {
		if row.CreatedAt.Before(from) || !row.CreatedAt.Before(to) {
			continue
		}
		if row.Status == models.OrderStatusCancelled {
			cancelled[row.OrderID] = true
			continue
		}

		ps, ok := products[row.ProductID]
		if !ok {
			ps = &models.ProductSales{ProductID: row.ProductID, Name: row.ProductName}
			products[row.ProductID] = ps
		}
		ps.Quantity = ps.Quantity.Add(row.Quantity)
		ps.Revenue = ps.Revenue.Add(row.LineTotal)

		if seenOrders[row.OrderID] {
			continue
		}
		seenOrders[row.OrderID] = true

		report.OrderCount++
		report.Revenue = report.Revenue.Add(row.Total)
		report.DiscountTotal = report.DiscountTotal.Add(row.Discount)

		day := row.CreatedAt.Format("2006-01-02")
		ds, ok := days[day]
		if !ok {
			ds = &models.DailySales{Date: day}
			days[day] = ds
		}
		ds.Orders++
		ds.Revenue = ds.Revenue.Add(row.Total)

		cs, ok := customers[row.CustomerID]
		if !ok {
			cs = &models.CustomerSales{CustomerID: row.CustomerID, Name: row.CustomerName}
			customers[row.CustomerID] = cs
		}
		cs.Orders++
		cs.Spent = cs.Spent.Add(row.Total)

		if row.CarrierID != nil && row.Status == models.OrderStatusDelivered {
			cp, ok := carriers[*row.CarrierID]
			if !ok {
				cp = &models.CarrierPerformance{CarrierID: *row.CarrierID, Name: row.CarrierName}
				carriers[*row.CarrierID] = cp
			}
			cp.Deliveries++
			if row.CarrierRating != nil {
				cp.RatedOrders++
				ratingSums[cp.CarrierID] += *row.CarrierRating
			}
		}
	}

	report.CancelledCount = len(cancelled)
	if report.OrderCount > 0 {
		report.AverageOrderValue = report.Revenue.Div(decimal.NewFromInt(int64(report.OrderCount))).Round(2)
	}

	for _, ps := range products {
		report.ByProduct = append(report.ByProduct, *ps)
	}
	sort.Slice(report.ByProduct, func(i, j int) bool {
		a, b := report.ByProduct[i], report.ByProduct[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.Name < b.Name
	})

	for _, ds := range days {
		report.ByDay = append(report.ByDay, *ds)
	}
	sort.Slice(report.ByDay, func(i, j int) bool {
		return report.ByDay[i].Date < report.ByDay[j].Date
	})

	for _, cs := range customers {
		report.TopCustomers = append(report.TopCustomers, *cs)
	}
	sort.Slice(report.TopCustomers, func(i, j int) bool {
		a, b := report.TopCustomers[i], report.TopCustomers[j]
		if !a.Spent.Equal(b.Spent) {
			return a.Spent.GreaterThan(b.Spent)
		}
		return a.CustomerID < b.CustomerID
	})
	if len(report.TopCustomers) > topCustomerLimit {
		report.TopCustomers = report.TopCustomers[:topCustomerLimit]
	}

	for id, cp := range carriers {
		if cp.RatedOrders > 0 {
			cp.AverageRating = decimal.NewFromInt(int64(ratingSums[id])).
				Div(decimal.NewFromInt(int64(cp.RatedOrders))).Round(2)
		}
		report.Carriers = append(report.Carriers, *cp)
	}
	sort.Slice(report.Carriers, func(i, j int) bool {
		a, b := report.Carriers[i], report.Carriers[j]
		if a.Deliveries != b.Deliveries {
			return a.Deliveries > b.Deliveries
		}
		return a.CarrierID < b.CarrierID
	})

	return report
}
