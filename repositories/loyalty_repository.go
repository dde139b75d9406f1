package repositories

import (
	"context"

	"grocery-store/models"

	"github.com/pkg/errors"
)

type LoyaltyRepository struct {
	db DBTX
}

func NewLoyaltyRepository(db DBTX) *LoyaltyRepository {
	return &LoyaltyRepository{db: db}
}

// Get returns the stored settings, or the defaults when the row is missing.
func (r *LoyaltyRepository) Get(ctx context.Context) (models.LoyaltySettings, error) {
	var s models.LoyaltySettings
	err := r.db.QueryRow(ctx, `
		SELECT enabled, tier1_orders, tier1_discount, tier2_orders, tier2_discount,
		       tier3_orders, tier3_discount, updated_at
		FROM loyalty_settings WHERE id = 1`,
	).Scan(
		&s.Enabled, &s.Tier1Orders, &s.Tier1Discount, &s.Tier2Orders, &s.Tier2Discount,
		&s.Tier3Orders, &s.Tier3Discount, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(mapError(err), models.ErrNotFound) {
			return models.DefaultLoyaltySettings(), nil
		}
		return s, err
	}
	return s, nil
}

func (r *LoyaltyRepository) Save(ctx context.Context, s *models.LoyaltySettings) error {
	query := `
		INSERT INTO loyalty_settings (id, enabled, tier1_orders, tier1_discount, tier2_orders,
		                              tier2_discount, tier3_orders, tier3_discount, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			tier1_orders = EXCLUDED.tier1_orders,
			tier1_discount = EXCLUDED.tier1_discount,
			tier2_orders = EXCLUDED.tier2_orders,
			tier2_discount = EXCLUDED.tier2_discount,
			tier3_orders = EXCLUDED.tier3_orders,
			tier3_discount = EXCLUDED.tier3_discount,
			updated_at = NOW()
		RETURNING updated_at
	`
	return r.db.QueryRow(ctx, query,
		s.Enabled, s.Tier1Orders, s.Tier1Discount, s.Tier2Orders, s.Tier2Discount,
		s.Tier3Orders, s.Tier3Discount,
	).Scan(&s.UpdatedAt)
}
