package repositories

import (
	"context"

	"grocery-store/models"

	"github.com/shopspring/decimal"
)

type CartRepository struct {
	db DBTX
}

func NewCartRepository(db DBTX) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) ListItems(ctx context.Context, userID int) ([]models.CartItem, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
		       p.id, p.name, p.type, p.price, p.stock, p.threshold, p.image_url, p.image_public_id,
		       p.is_active, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		p := &models.Product{}
		err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Name, &p.Type, &p.Price, &p.Stock, &p.Threshold, &p.ImageURL, &p.ImagePublicID,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		item.Product = p
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddItem inserts the product or adds qty to the existing line.
func (r *CartRepository) AddItem(ctx context.Context, userID, productID int, qty decimal.Decimal) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, userID, productID, qty)
	return mapError(err)
}

func (r *CartRepository) SetQuantity(ctx context.Context, userID, productID int, qty decimal.Decimal) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE user_id = $2 AND product_id = $3`,
		qty, userID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
