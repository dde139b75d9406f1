package repositories

import (
	"context"

	"grocery-store/models"

	"github.com/pkg/errors"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password, role, full_name, phone, address, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.FullName,
		&user.Phone,
		&user.Address,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password, role, full_name, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.Password,
		user.Role,
		user.FullName,
		user.Phone,
		user.Address,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	return mapError(err)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindAll(ctx context.Context, role string, page, limit int) ([]models.User, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM users WHERE ($1::text = '' OR role = $1)`
	if err := r.db.QueryRow(ctx, countQuery, role).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1::text = '' OR role = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, role, limit, offset(page, limit))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $1, role = $2, full_name = $3, phone = $4, address = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.Role,
		user.FullName,
		user.Phone,
		user.Address,
		user.ID,
	).Scan(&user.UpdatedAt)

	return mapError(err)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, hashedPassword string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`, hashedPassword, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(mapError(err), "delete user")
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListContacts returns users whose role is in roles, excluding excludeID.
func (r *UserRepository) ListContacts(ctx context.Context, roles []string, excludeID int) ([]models.Contact, error) {
	query := `
		SELECT id, full_name, role
		FROM users
		WHERE role = ANY($1) AND id <> $2
		ORDER BY role, full_name
	`
	rows, err := r.db.Query(ctx, query, roles, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.FullName, &c.Role); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	return count, err
}
