package repository

import (
	"context"
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository is the data access contract for the notifications table.
// Every per-row operation is scoped by user id; a row owned by another user
// is reported as ErrNotFound.
type NotificationRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Create(ctx context.Context, n *model.Notification) error
	PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a NotificationRepository backed by PostgreSQL.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

const notificationColumns = `id, user_id, title, message, type, read, read_at, created_at`

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return queryPage[model.Notification](ctx, r.pool,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, []any{userID},
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`, []any{userID, limit, offset},
		scanNotification,
	)
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID,
	).Scan(&n)
	return n, err
}

// MarkRead is idempotent: an already-read row keeps its original read_at.
func (r *notificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`UPDATE notifications
		 SET read = TRUE, read_at = COALESCE(read_at, NOW())
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+notificationColumns, id, userID,
	)
	if err != nil {
		return nil, err
	}
	n, err := pgx.CollectExactlyOneRow(rows, scanNotification)
	if err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE, read_at = NOW() WHERE user_id = $1 AND NOT read`, userID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *notificationRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, title, message, type)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, read, read_at, created_at`,
		n.UserID, n.Title, n.Message, n.Type,
	).Scan(&n.ID, &n.Read, &n.ReadAt, &n.CreatedAt)
}

// PurgeReadBefore deletes read notifications whose read_at is older than cutoff.
func (r *notificationRepository) PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE read AND read_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanNotification(row pgx.CollectableRow) (model.Notification, error) {
	var n model.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.ReadAt, &n.CreatedAt)
	return n, err
}
