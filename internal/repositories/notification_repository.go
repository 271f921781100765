package repositories

import (
	"context"
	"database/sql"
	"time"

	"uslugihub/internal/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	query := `
        INSERT INTO notifications (user_id, type, title, message, data, is_read, created_at)
        VALUES (?, ?, ?, ?, ?, 0, ?)
    `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query, n.UserID, n.Type, n.Title, n.Message, marshalStringMap(n.Data), now)
	if err != nil {
		return models.Notification{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.Notification{}, err
	}
	n.ID = int(insertedID)
	n.CreatedAt = now
	return n, nil
}

func (r *NotificationRepository) ListNotificationsByUser(ctx context.Context, userID int) ([]models.Notification, error) {
	query := `
        SELECT id, user_id, type, title, message, data, is_read, created_at
        FROM notifications
        WHERE user_id = ?
        ORDER BY created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		var n models.Notification
		var data sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &data, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Data = unmarshalStringMap(data)
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotificationNotFound
	}
	return nil
}

// GetTokensByUserID returns FCM device tokens registered for a user.
func (r *NotificationRepository) GetTokensByUserID(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT token FROM device_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
