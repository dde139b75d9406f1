package repositories

import (
	"context"
	"errors"
	"testing"

	"grocery-store/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// execOnlyDB answers Exec with a fixed tag or error.
type execOnlyDB struct {
	tag pgconn.CommandTag
	err error
}

func (db execOnlyDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return db.tag, db.err
}

func (execOnlyDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (execOnlyDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (execOnlyDB) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("not supported")
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, models.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"}, models.ErrConflict},
		{"foreign key violation", &pgconn.PgError{Code: foreignKeyViolation, TableName: "orders"}, models.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err), tt.want)
		})
	}

	other := errors.New("connection reset")
	assert.Equal(t, other, mapError(other))
	assert.NoError(t, mapError(nil))
}

func TestCouponDeleteStillReferencedIsConflict(t *testing.T) {
	repo := NewCouponRepository(execOnlyDB{err: &pgconn.PgError{Code: foreignKeyViolation, TableName: "orders"}})

	err := repo.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Contains(t, err.Error(), "orders")
}

func TestCouponDeleteMissingIsNotFound(t *testing.T) {
	repo := NewCouponRepository(execOnlyDB{tag: pgconn.NewCommandTag("DELETE 0")})

	assert.ErrorIs(t, repo.Delete(context.Background(), 3), models.ErrNotFound)
}
