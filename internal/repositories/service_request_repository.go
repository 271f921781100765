package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"uslugihub/internal/models"
)

type ServiceRequestRepository struct {
	DB *sql.DB
}

func (r *ServiceRequestRepository) GetRequestByID(ctx context.Context, id int) (models.ServiceRequest, error) {
	query := `
        SELECT sr.id, sr.user_id, sr.title, sr.description, sr.category_id,
               COALESCE(c.name, ''), sr.country_id, sr.city_id, sr.tags,
               sr.status, sr.is_active, sr.require_verification, sr.created_at, sr.updated_at
        FROM service_requests sr
        LEFT JOIN categories c ON c.id = sr.category_id
        WHERE sr.id = ?
    `
	var req models.ServiceRequest
	var tags string
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&req.Title,
		&req.Description,
		&req.CategoryID,
		&req.CategoryName,
		&req.CountryID,
		&req.CityID,
		&tags,
		&req.Status,
		&req.IsActive,
		&req.RequireVerification,
		&req.CreatedAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ServiceRequest{}, models.ErrRequestNotFound
	}
	if err != nil {
		return models.ServiceRequest{}, err
	}
	req.Tags = splitTags(tags)
	req.UpdatedAt = nullTimeToPtr(updatedAt)
	return req, nil
}

func (r *ServiceRequestRepository) CreateRequest(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, error) {
	query := `
        INSERT INTO service_requests (user_id, title, description, category_id, country_id, city_id, tags, status, is_active, require_verification, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	now := time.Now()
	if req.Status == "" {
		req.Status = models.RequestStatusActive
	}
	req.IsActive = true
	result, err := r.DB.ExecContext(ctx, query,
		req.UserID, req.Title, req.Description, req.CategoryID, req.CountryID, req.CityID,
		joinTags(req.Tags), req.Status, req.IsActive, req.RequireVerification, now)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.ServiceRequest{}, err
	}
	req.ID = int(insertedID)
	req.CreatedAt = now
	return req, nil
}

// UpdateStatus sets the request status unconditionally. Used for the
// idempotent matching side effect and the reviewing_offers bump.
func (r *ServiceRequestRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE service_requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrRequestNotFound
	}
	return nil
}

func (r *ServiceRequestRepository) Deactivate(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE service_requests SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}
