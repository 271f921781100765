package repositories

import (
	"context"
	"database/sql"
	"errors"

	"uslugihub/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	query := `SELECT id, user_id, role, refresh_token, expires_at FROM sessions WHERE refresh_token = ?`
	var s models.Session
	err := r.DB.QueryRowContext(ctx, query, refreshToken).Scan(&s.ID, &s.UserID, &s.Role, &s.RefreshToken, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Session{}, err
	}
	return s, nil
}

func (r *UserRepository) RotateSessionToken(ctx context.Context, sessionID int, newToken string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE sessions SET refresh_token = ? WHERE id = ?`, newToken, sessionID)
	return err
}
