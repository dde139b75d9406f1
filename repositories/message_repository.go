package repositories

import (
	"context"

	"grocery-store/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageSelect = `
	SELECT m.id, m.sender_id, s.full_name, m.receiver_id, r.full_name, m.parent_id,
	       m.subject, m.body, m.is_read, m.sender_deleted, m.receiver_deleted, m.created_at
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.receiver_id
`

func scanMessage(row interface{ Scan(...any) error }) (*models.Message, error) {
	var m models.Message
	err := row.Scan(
		&m.ID, &m.SenderID, &m.SenderName, &m.ReceiverID, &m.ReceiverName, &m.ParentID,
		&m.Subject, &m.Body, &m.IsRead, &m.SenderDeleted, &m.ReceiverDeleted, &m.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, parent_id, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, is_read, created_at
	`
	err := r.db.QueryRow(ctx, query, m.SenderID, m.ReceiverID, m.ParentID, m.Subject, m.Body).
		Scan(&m.ID, &m.IsRead, &m.CreatedAt)
	return mapError(err)
}

func (r *MessageRepository) FindByID(ctx context.Context, id int) (*models.Message, error) {
	return scanMessage(r.db.QueryRow(ctx, messageSelect+` WHERE m.id = $1`, id))
}

func (r *MessageRepository) Inbox(ctx context.Context, userID, page, limit int) ([]models.Message, int, error) {
	return r.list(ctx, `m.receiver_id = $1 AND NOT m.receiver_deleted`, userID, page, limit)
}

func (r *MessageRepository) Sent(ctx context.Context, userID, page, limit int) ([]models.Message, int, error) {
	return r.list(ctx, `m.sender_id = $1 AND NOT m.sender_deleted`, userID, page, limit)
}

func (r *MessageRepository) list(ctx context.Context, cond string, userID, page, limit int) ([]models.Message, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages m WHERE `+cond, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := messageSelect + ` WHERE ` + cond + ` ORDER BY m.created_at DESC, m.id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset(page, limit))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, *m)
	}
	return messages, total, rows.Err()
}

func (r *MessageRepository) MarkRead(ctx context.Context, id, receiverID int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE messages SET is_read = true WHERE id = $1 AND receiver_id = $2`, id, receiverID)
	return err
}

func (r *MessageRepository) CountUnread(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND is_read = false AND NOT receiver_deleted`,
		userID).Scan(&count)
	return count, err
}

// Delete hides the message from userID's side of the conversation.
func (r *MessageRepository) Delete(ctx context.Context, id, userID int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE messages SET
			sender_deleted = sender_deleted OR sender_id = $2,
			receiver_deleted = receiver_deleted OR receiver_id = $2
		WHERE id = $1 AND (sender_id = $2 OR receiver_id = $2)`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
