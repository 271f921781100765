package repositories

import (
	"context"
	"database/sql"
	"errors"

	"uslugihub/internal/fsm"
	"uslugihub/internal/models"
)

type ProjectRepository struct {
	DB *sql.DB
}

func (r *ProjectRepository) GetProjectByID(ctx context.Context, id int) (models.Project, error) {
	query := `
        SELECT p.id, p.request_id, p.owner_id, p.company_id, p.status, p.progress, p.created_at, p.updated_at,
               co.owner_user_id
        FROM projects p
        JOIN companies co ON co.id = p.company_id
        WHERE p.id = ?
    `
	var p models.Project
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.RequestID,
		&p.OwnerID,
		&p.CompanyID,
		&p.Status,
		&p.Progress,
		&p.CreatedAt,
		&updatedAt,
		&p.CompanyOwnerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, models.ErrProjectNotFound
	}
	if err != nil {
		return models.Project{}, err
	}
	p.UpdatedAt = nullTimeToPtr(updatedAt)
	return p, nil
}

func (r *ProjectRepository) ListProjectsByUser(ctx context.Context, userID int) ([]models.Project, error) {
	query := `
        SELECT p.id, p.request_id, p.owner_id, p.company_id, p.status, p.progress, p.created_at, p.updated_at,
               co.owner_user_id
        FROM projects p
        JOIN companies co ON co.id = p.company_id
        WHERE p.owner_id = ? OR co.owner_user_id = ?
        ORDER BY p.created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&p.ID, &p.RequestID, &p.OwnerID, &p.CompanyID, &p.Status, &p.Progress,
			&p.CreatedAt, &updatedAt, &p.CompanyOwnerID,
		); err != nil {
			return nil, err
		}
		p.UpdatedAt = nullTimeToPtr(updatedAt)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Transition moves a project to newStatus using the optimistic FSM update
// and, in the same transaction, mirrors a terminal status onto the parent
// request and bumps the company's completed counter. A zero-row conditional
// update means the caller raced another transition and lost.
func (r *ProjectRepository) Transition(ctx context.Context, project models.Project, newStatus string) (models.Project, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Project{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fsm.ApplyProject(ctx, tx, project.ID, project.Status, newStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = &models.InvalidTransitionError{From: project.Status, To: newStatus}
		}
		return models.Project{}, err
	}

	switch newStatus {
	case models.ProjectStatusCompleted:
		if _, err = tx.ExecContext(ctx,
			`UPDATE service_requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			models.RequestStatusCompleted, project.RequestID); err != nil {
			return models.Project{}, err
		}
		if err = IncrementProjectsCompleted(ctx, tx, project.CompanyID); err != nil {
			return models.Project{}, err
		}
	case models.ProjectStatusCancelled:
		if _, err = tx.ExecContext(ctx,
			`UPDATE service_requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			models.RequestStatusCancelled, project.RequestID); err != nil {
			return models.Project{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Project{}, err
	}
	project.Status = newStatus
	return project, nil
}

func (r *ProjectRepository) UpdateProgress(ctx context.Context, id, progress int) error {
	if progress < 0 || progress > 100 {
		return models.ErrInvalidInput
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE projects SET progress = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, progress, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrProjectNotFound
	}
	return nil
}
