package repositories

import (
	"context"

	"grocery-store/models"
)

type CouponRepository struct {
	db DBTX
}

func NewCouponRepository(db DBTX) *CouponRepository {
	return &CouponRepository{db: db}
}

const couponColumns = `id, code, user_id, discount_percent, min_order_value, max_discount, expires_at, used_at, used_by_order_id, created_at`

func scanCoupon(row interface{ Scan(...any) error }) (*models.Coupon, error) {
	var c models.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.UserID, &c.DiscountPercent, &c.MinOrderValue, &c.MaxDiscount,
		&c.ExpiresAt, &c.UsedAt, &c.UsedByOrderID, &c.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *CouponRepository) Create(ctx context.Context, c *models.Coupon) error {
	query := `
		INSERT INTO coupons (code, user_id, discount_percent, min_order_value, max_discount, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		c.Code, c.UserID, c.DiscountPercent, c.MinOrderValue, c.MaxDiscount, c.ExpiresAt,
	).Scan(&c.ID, &c.CreatedAt)
	return mapError(err)
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	return scanCoupon(r.db.QueryRow(ctx, query, code))
}

func (r *CouponRepository) FindByID(ctx context.Context, id int) (*models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`
	return scanCoupon(r.db.QueryRow(ctx, query, id))
}

// List returns every coupon when userID is 0, otherwise the user's own
// coupons plus the general ones.
func (r *CouponRepository) List(ctx context.Context, userID int) ([]models.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE $1 = 0 OR user_id = $1 OR user_id IS NULL
		ORDER BY expires_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coupons := []models.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

// Delete removes an unused coupon. Redeemed coupons stay for order history.
func (r *CouponRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM coupons WHERE id = $1 AND used_at IS NULL`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
