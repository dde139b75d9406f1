package repositories

import (
	"context"
	"time"

	"grocery-store/models"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.order_number, o.customer_id, COALESCE(cu.full_name, ''),
	       o.carrier_id, COALESCE(ca.full_name, ''), o.status,
	       o.subtotal, o.loyalty_discount, o.coupon_discount, o.coupon_id, o.vat, o.total,
	       o.delivery_address, o.requested_delivery_at, o.delivered_at, o.carrier_rating,
	       o.created_at, o.updated_at
	FROM orders o
	JOIN users cu ON cu.id = o.customer_id
	LEFT JOIN users ca ON ca.id = o.carrier_id
`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var rating *int16
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName,
		&o.CarrierID, &o.CarrierName, &o.Status,
		&o.Subtotal, &o.LoyaltyDiscount, &o.CouponDiscount, &o.CouponID, &o.VAT, &o.Total,
		&o.DeliveryAddress, &o.RequestedDeliveryAt, &o.DeliveredAt, &rating,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if rating != nil {
		v := int(*rating)
		o.CarrierRating = &v
	}
	return &o, nil
}

// Create places an order atomically: stock is decremented, the order and its
// items are inserted, the coupon (if any) is consumed and the cart cleared.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, item := range order.Items {
			tag, err := tx.Exec(ctx, `
				UPDATE products SET stock = stock - $1, updated_at = NOW()
				WHERE id = $2 AND is_active = true AND stock >= $1`,
				item.Quantity, item.ProductID)
			if err != nil {
				return errors.Wrap(err, "update stock")
			}
			if tag.RowsAffected() == 0 {
				return errors.Wrap(models.ErrInsufficientStock, item.ProductName)
			}
		}

		err := tx.QueryRow(ctx, `
			INSERT INTO orders (order_number, customer_id, status, subtotal, loyalty_discount,
			                    coupon_discount, coupon_id, vat, total, delivery_address,
			                    requested_delivery_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			order.OrderNumber, order.CustomerID, order.Status, order.Subtotal, order.LoyaltyDiscount,
			order.CouponDiscount, order.CouponID, order.VAT, order.Total, order.DeliveryAddress,
			order.RequestedDeliveryAt,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return errors.Wrap(mapError(err), "insert order")
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				order.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.LineTotal,
			).Scan(&item.ID)
			if err != nil {
				return errors.Wrap(err, "insert order item")
			}
		}

		if order.CouponID != nil {
			tag, err := tx.Exec(ctx, `
				UPDATE coupons SET used_at = NOW(), used_by_order_id = $1
				WHERE id = $2 AND used_at IS NULL`,
				order.ID, *order.CouponID)
			if err != nil {
				return errors.Wrap(err, "consume coupon")
			}
			if tag.RowsAffected() == 0 {
				return models.ErrCouponUsed
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, order.CustomerID); err != nil {
			return errors.Wrap(err, "clear cart")
		}
		return nil
	})
}

func (r *OrderRepository) FindByID(ctx context.Context, id int) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, err
	}

	items, err := r.items(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *OrderRepository) items(ctx context.Context, db DBTX, orderID int) ([]models.OrderItem, error) {
	rows, err := db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, line_total
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *OrderRepository) List(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error) {
	where := `
		WHERE ($1 = 0 OR o.customer_id = $1)
		  AND ($2 = 0 OR o.carrier_id = $2)
		  AND ($3::text = '' OR o.status = $3)
	`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders o `+where, f.CustomerID, f.CarrierID, f.Status).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := orderSelect + where + ` ORDER BY o.created_at DESC LIMIT $4 OFFSET $5`
	rows, err := r.db.Query(ctx, query, f.CustomerID, f.CarrierID, f.Status, f.Limit, offset(f.Page, f.Limit))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

// Assign hands a pending order to a carrier. It fails with
// ErrInvalidTransition when another carrier got there first.
func (r *OrderRepository) Assign(ctx context.Context, orderID, carrierID int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET carrier_id = $2, status = 'assigned', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`,
		orderID, carrierID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrInvalidTransition
	}
	return nil
}

func (r *OrderRepository) MarkDelivered(ctx context.Context, orderID, carrierID int, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = 'delivered', delivered_at = $3, updated_at = NOW()
		WHERE id = $1 AND carrier_id = $2 AND status = 'assigned'`,
		orderID, carrierID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrInvalidTransition
	}
	return nil
}

// Cancel cancels a customer's open order, restores stock and releases the
// coupon used on it.
func (r *OrderRepository) Cancel(ctx context.Context, orderID, customerID int) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		var couponID *int
		err := tx.QueryRow(ctx, `
			UPDATE orders SET status = 'cancelled', updated_at = NOW()
			WHERE id = $1 AND customer_id = $2 AND status IN ('pending', 'assigned')
			RETURNING coupon_id`,
			orderID, customerID).Scan(&couponID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrInvalidTransition
			}
			return err
		}

		items, err := r.items(ctx, tx, orderID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if _, err := tx.Exec(ctx,
				`UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`,
				it.Quantity, it.ProductID); err != nil {
				return errors.Wrap(err, "restore stock")
			}
		}

		if couponID != nil {
			if _, err := tx.Exec(ctx,
				`UPDATE coupons SET used_at = NULL, used_by_order_id = NULL WHERE id = $1 AND used_by_order_id = $2`,
				*couponID, orderID); err != nil {
				return errors.Wrap(err, "release coupon")
			}
		}
		return nil
	})
}

func (r *OrderRepository) Rate(ctx context.Context, orderID, customerID, rating int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET carrier_rating = $3, updated_at = NOW()
		WHERE id = $1 AND customer_id = $2 AND status = 'delivered' AND carrier_rating IS NULL`,
		orderID, customerID, rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrAlreadyRated
	}
	return nil
}

// CountCompleted returns how many of the customer's orders were delivered.
func (r *OrderRepository) CountCompleted(ctx context.Context, customerID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE customer_id = $1 AND status = 'delivered'`,
		customerID).Scan(&count)
	return count, err
}
