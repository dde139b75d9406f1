package repositories

import (
	"context"

	"grocery-store/models"
)

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

type ProductFilter struct {
	Type            string
	Search          string
	IncludeInactive bool
	Page            int
	Limit           int
}

const productColumns = `id, name, type, price, stock, threshold, image_url, image_public_id, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Type, &p.Price, &p.Stock, &p.Threshold,
		&p.ImageURL, &p.ImagePublicID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, int, error) {
	where := `
		WHERE ($1::text = '' OR type = $1)
		  AND ($2::text = '' OR name ILIKE '%' || $2 || '%')
		  AND ($3 OR is_active = true)
	`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where, f.Type, f.Search, f.IncludeInactive).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products ` + where + ` ORDER BY name LIMIT $4 OFFSET $5`
	rows, err := r.db.Query(ctx, query, f.Type, f.Search, f.IncludeInactive, f.Limit, offset(f.Page, f.Limit))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepository) FindByID(ctx context.Context, id int) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, type, price, stock, threshold, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
		RETURNING id, is_active, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		product.Name, product.Type, product.Price, product.Stock, product.Threshold,
	).Scan(&product.ID, &product.IsActive, &product.CreatedAt, &product.UpdatedAt)
	return mapError(err)
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, type = $2, price = $3, stock = $4, threshold = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		product.Name, product.Type, product.Price, product.Stock,
		product.Threshold, product.IsActive, product.ID,
	).Scan(&product.UpdatedAt)
	return mapError(err)
}

func (r *ProductRepository) UpdateImage(ctx context.Context, id int, url, publicID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET image_url = $1, image_public_id = $2, updated_at = NOW() WHERE id = $3`,
		url, publicID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListLowStock returns active products at or below their threshold.
func (r *ProductRepository) ListLowStock(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = true AND stock <= threshold ORDER BY stock`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
