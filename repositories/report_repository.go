package repositories

import (
	"context"
	"time"

	"grocery-store/models"

	"github.com/shopspring/decimal"
)

type ReportRepository struct {
	db DBTX
}

func NewReportRepository(db DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

// OrderRows returns one row per order item for orders created in [from, to).
// Cancelled orders are included so callers can count them.
func (r *ReportRepository) OrderRows(ctx context.Context, from, to time.Time) ([]models.OrderReportRow, error) {
	query := `
		SELECT o.id, o.customer_id, cu.full_name, o.carrier_id, COALESCE(ca.full_name, ''),
		       o.status, o.total, o.loyalty_discount + o.coupon_discount, o.carrier_rating,
		       o.created_at, oi.product_id, oi.product_name, oi.quantity, oi.line_total
		FROM orders o
		JOIN users cu ON cu.id = o.customer_id
		LEFT JOIN users ca ON ca.id = o.carrier_id
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.created_at >= $1 AND o.created_at < $2
		ORDER BY o.created_at, o.id, oi.id
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.OrderReportRow{}
	for rows.Next() {
		var row models.OrderReportRow
		var rating *int16
		err := rows.Scan(
			&row.OrderID, &row.CustomerID, &row.CustomerName, &row.CarrierID, &row.CarrierName,
			&row.Status, &row.Total, &row.Discount, &rating,
			&row.CreatedAt, &row.ProductID, &row.ProductName, &row.Quantity, &row.LineTotal,
		)
		if err != nil {
			return nil, err
		}
		if rating != nil {
			v := int(*rating)
			row.CarrierRating = &v
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// RevenueSince sums the totals of non-cancelled orders created at or after since.
func (r *ReportRepository) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, int, error) {
	var revenue decimal.Decimal
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM orders
		WHERE created_at >= $1 AND status <> 'cancelled'`, since,
	).Scan(&revenue, &count)
	return revenue, count, err
}

func (r *ReportRepository) CountOrdersByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, status).Scan(&count)
	return count, err
}
