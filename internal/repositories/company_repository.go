package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"uslugihub/internal/models"
)

type CompanyRepository struct {
	DB *sql.DB
}

func (r *CompanyRepository) GetCompanyByID(ctx context.Context, id int) (models.Company, error) {
	query := `
        SELECT id, owner_user_id, name, country_id, city_id, verification_status, is_active, projects_completed_count, created_at
        FROM companies
        WHERE id = ?
    `
	var c models.Company
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.OwnerUserID,
		&c.Name,
		&c.CountryID,
		&c.CityID,
		&c.VerificationStatus,
		&c.IsActive,
		&c.ProjectsCompleted,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Company{}, models.ErrCompanyNotFound
	}
	if err != nil {
		return models.Company{}, err
	}
	if err := r.attachServices(ctx, &c); err != nil {
		return models.Company{}, err
	}
	c.AverageRating, c.ReviewCount = getCompanyRating(ctx, r.DB, c.ID)
	return c, nil
}

// ListCandidates implements the coarse recall filter: verified and active
// companies matching at least one of category name, country, city or a
// request tag. The filter is deliberately wide; ranking happens later. The
// cap is applied in insertion order, not by relevance.
func (r *CompanyRepository) ListCandidates(ctx context.Context, req models.ServiceRequest, limit int) ([]models.Company, error) {
	conditions := []string{
		"co.country_id = ?",
		"co.city_id = ?",
	}
	args := []interface{}{models.VerificationVerified, req.CountryID, req.CityID}

	if category := strings.ToLower(strings.TrimSpace(req.CategoryName)); category != "" {
		conditions = append(conditions,
			"LOWER(cs.name) LIKE ?",
			"LOWER(cs.description) LIKE ?",
		)
		args = append(args, "%"+category+"%", "%"+category+"%")
	}
	for _, tag := range req.Tags {
		conditions = append(conditions, "LOWER(cs.tags) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(tag))+"%")
	}
	args = append(args, limit)

	query := `
        SELECT DISTINCT co.id, co.owner_user_id, co.name, co.country_id, co.city_id,
               co.verification_status, co.is_active, co.projects_completed_count, co.created_at
        FROM companies co
        LEFT JOIN company_services cs ON cs.company_id = co.id
        WHERE co.verification_status = ? AND co.is_active = 1
          AND (` + strings.Join(conditions, " OR ") + `)
        ORDER BY co.id
        LIMIT ?
    `
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(
			&c.ID,
			&c.OwnerUserID,
			&c.Name,
			&c.CountryID,
			&c.CityID,
			&c.VerificationStatus,
			&c.IsActive,
			&c.ProjectsCompleted,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range companies {
		if err := r.attachServices(ctx, &companies[i]); err != nil {
			return nil, err
		}
		companies[i].AverageRating, companies[i].ReviewCount = getCompanyRating(ctx, r.DB, companies[i].ID)
	}
	return companies, nil
}

func (r *CompanyRepository) attachServices(ctx context.Context, c *models.Company) error {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, company_id, name, description, tags FROM company_services WHERE company_id = ?`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var svc models.CompanyService
		var tags string
		if err := rows.Scan(&svc.ID, &svc.CompanyID, &svc.Name, &svc.Description, &tags); err != nil {
			return err
		}
		svc.Tags = splitTags(tags)
		c.Services = append(c.Services, svc)
	}
	return rows.Err()
}

// IncrementProjectsCompleted bumps the denormalized counter inside the
// project completion transaction.
func IncrementProjectsCompleted(ctx context.Context, tx *sql.Tx, companyID int) error {
	_, err := tx.ExecContext(ctx, `UPDATE companies SET projects_completed_count = projects_completed_count + 1 WHERE id = ?`, companyID)
	return err
}
