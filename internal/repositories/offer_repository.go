package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"uslugihub/internal/fsm"
	"uslugihub/internal/models"
)

type OfferRepository struct {
	DB *sql.DB
}

// CreateOffer inserts a pending offer. Uniqueness of live offers per
// (request_id, company_id) is backed by the uq_offers_request_company index
// over (request_id, company_id, live); withdrawn offers carry live = NULL and
// never collide. The pre-check keeps the common path readable, the index
// closes the concurrent race.
func (r *OfferRepository) CreateOffer(ctx context.Context, offer models.Offer) (models.Offer, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM offers WHERE request_id = ? AND company_id = ? AND status <> ?`,
		offer.RequestID, offer.CompanyID, models.OfferStatusWithdrawn).Scan(&count); err != nil {
		return models.Offer{}, err
	}
	if count > 0 {
		return models.Offer{}, models.ErrOfferAlreadyExists
	}

	query := `
        INSERT INTO offers (request_id, company_id, price, currency, estimated_days, description, attachments, status, live, created_at, expires_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
    `
	now := time.Now()
	offer.Status = models.OfferStatusPending
	offer.CreatedAt = now
	offer.ExpiresAt = now.Add(models.OfferTTL)
	result, err := r.DB.ExecContext(ctx, query,
		offer.RequestID, offer.CompanyID, offer.Price, offer.Currency, offer.EstimatedDays,
		offer.Description, marshalStringSlice(offer.Attachments), offer.Status, now, offer.ExpiresAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Offer{}, models.ErrOfferAlreadyExists
		}
		return models.Offer{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.Offer{}, err
	}
	offer.ID = int(insertedID)
	return offer, nil
}

func (r *OfferRepository) GetOfferByID(ctx context.Context, id int) (models.Offer, error) {
	query := `
        SELECT id, request_id, company_id, price, currency, estimated_days, description, attachments, status, created_at, expires_at, updated_at
        FROM offers
        WHERE id = ?
    `
	var o models.Offer
	var attachments sql.NullString
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&o.ID,
		&o.RequestID,
		&o.CompanyID,
		&o.Price,
		&o.Currency,
		&o.EstimatedDays,
		&o.Description,
		&attachments,
		&o.Status,
		&o.CreatedAt,
		&o.ExpiresAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Offer{}, models.ErrOfferNotFound
	}
	if err != nil {
		return models.Offer{}, err
	}
	o.Attachments = unmarshalStringSlice(attachments)
	o.UpdatedAt = nullTimeToPtr(updatedAt)
	return o, nil
}

func (r *OfferRepository) ListOffersByRequest(ctx context.Context, requestID int) ([]models.Offer, error) {
	return r.listOffers(ctx, `request_id = ?`, requestID)
}

func (r *OfferRepository) ListOffersByCompany(ctx context.Context, companyID int) ([]models.Offer, error) {
	return r.listOffers(ctx, `company_id = ?`, companyID)
}

func (r *OfferRepository) listOffers(ctx context.Context, where string, arg interface{}) ([]models.Offer, error) {
	query := `
        SELECT id, request_id, company_id, price, currency, estimated_days, description, attachments, status, created_at, expires_at, updated_at
        FROM offers
        WHERE ` + where + `
        ORDER BY created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		var o models.Offer
		var attachments sql.NullString
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&o.ID, &o.RequestID, &o.CompanyID, &o.Price, &o.Currency, &o.EstimatedDays,
			&o.Description, &attachments, &o.Status, &o.CreatedAt, &o.ExpiresAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		o.Attachments = unmarshalStringSlice(attachments)
		o.UpdatedAt = nullTimeToPtr(updatedAt)
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// HasLiveOffer reports whether the company already holds a non-withdrawn
// offer on the request.
func (r *OfferRepository) HasLiveOffer(ctx context.Context, requestID, companyID int) (bool, error) {
	var marker int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM offers WHERE request_id = ? AND company_id = ? AND status <> ? LIMIT 1`,
		requestID, companyID, models.OfferStatusWithdrawn).Scan(&marker)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountLiveOffers returns the number of non-withdrawn offers on a request.
func (r *OfferRepository) CountLiveOffers(ctx context.Context, requestID int) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM offers WHERE request_id = ? AND status <> ?`,
		requestID, models.OfferStatusWithdrawn).Scan(&count)
	return count, err
}

// AcceptOffer runs the whole acceptance as one transaction: the conditional
// pending->accepted update, the request move to in_progress, auto-rejection
// of the losing pending offers and creation of the project. A zero-row
// conditional update means another accept already won.
func (r *OfferRepository) AcceptOffer(ctx context.Context, offer models.Offer, ownerID int) (models.Project, int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Project{}, 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fsm.ApplyOffer(ctx, tx, offer.ID, models.OfferStatusPending, models.OfferStatusAccepted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrOfferAlreadyAccepted
		}
		return models.Project{}, 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE service_requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		models.RequestStatusInProgress, offer.RequestID); err != nil {
		return models.Project{}, 0, err
	}

	res, execErr := tx.ExecContext(ctx,
		`UPDATE offers SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE request_id = ? AND id <> ? AND status = ?`,
		models.OfferStatusRejected, offer.RequestID, offer.ID, models.OfferStatusPending)
	if execErr != nil {
		err = execErr
		return models.Project{}, 0, err
	}
	rejected, raErr := res.RowsAffected()
	if raErr != nil {
		err = raErr
		return models.Project{}, 0, err
	}

	now := time.Now()
	insert, execErr := tx.ExecContext(ctx,
		`INSERT INTO projects (request_id, owner_id, company_id, status, progress, created_at) VALUES (?, ?, ?, ?, 0, ?)`,
		offer.RequestID, ownerID, offer.CompanyID, models.ProjectStatusPending, now)
	if execErr != nil {
		err = execErr
		return models.Project{}, 0, err
	}
	projectID, idErr := insert.LastInsertId()
	if idErr != nil {
		err = idErr
		return models.Project{}, 0, err
	}

	if err = tx.Commit(); err != nil {
		return models.Project{}, 0, err
	}

	project := models.Project{
		ID:        int(projectID),
		RequestID: offer.RequestID,
		OwnerID:   ownerID,
		CompanyID: offer.CompanyID,
		Status:    models.ProjectStatusPending,
		Progress:  0,
		CreatedAt: now,
	}
	return project, int(rejected), nil
}

// UpdateStatus performs a guarded pending->terminal move (withdraw/reject).
// Withdrawn offers also clear the live marker so the company may re-submit.
func (r *OfferRepository) UpdateStatus(ctx context.Context, id int, from, to string) error {
	if !fsm.OfferCanTransition(from, to) {
		return &models.InvalidTransitionError{From: from, To: to}
	}
	live := "live"
	if to == models.OfferStatusWithdrawn {
		live = "NULL"
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE offers SET status = ?, live = `+live+`, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		to, id, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrOfferAlreadyAccepted
	}
	return nil
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
