package fsm

import (
	"context"
	"database/sql"

	"uslugihub/internal/models"
)

var projectTransitions = map[string]map[string]struct{}{
	models.ProjectStatusPending: {
		models.ProjectStatusActive:    {},
		models.ProjectStatusCancelled: {},
	},
	models.ProjectStatusActive: {
		models.ProjectStatusOnHold:    {},
		models.ProjectStatusCompleted: {},
		models.ProjectStatusCancelled: {},
	},
	models.ProjectStatusOnHold: {
		models.ProjectStatusActive:    {},
		models.ProjectStatusCancelled: {},
	},
	models.ProjectStatusCompleted: {},
	models.ProjectStatusCancelled: {},
}

var offerTransitions = map[string]map[string]struct{}{
	models.OfferStatusPending: {
		models.OfferStatusAccepted:  {},
		models.OfferStatusRejected:  {},
		models.OfferStatusWithdrawn: {},
		models.OfferStatusExpired:   {},
	},
	models.OfferStatusAccepted:  {},
	models.OfferStatusRejected:  {},
	models.OfferStatusWithdrawn: {},
	models.OfferStatusExpired:   {},
}

// ProjectCanTransition returns whether a project may move from one status to
// another. Same-status moves are not transitions and are rejected.
func ProjectCanTransition(from, to string) bool {
	return canTransition(projectTransitions, from, to)
}

// OfferCanTransition returns whether an offer may move from one status to
// another.
func OfferCanTransition(from, to string) bool {
	return canTransition(offerTransitions, from, to)
}

func canTransition(table map[string]map[string]struct{}, from, to string) bool {
	allowed, ok := table[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// ApplyProject updates a project status using optimistic validation: the row
// is only touched if it still carries fromStatus, so two concurrent
// transitions cannot both win.
func ApplyProject(ctx context.Context, tx *sql.Tx, projectID int, fromStatus, toStatus string) error {
	if !ProjectCanTransition(fromStatus, toStatus) {
		return &models.InvalidTransitionError{From: fromStatus, To: toStatus}
	}
	res, err := tx.ExecContext(ctx, `UPDATE projects SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`, toStatus, projectID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ApplyOffer performs the same conditional update for offers. A zero-row
// result means some other caller already moved the offer out of fromStatus.
func ApplyOffer(ctx context.Context, tx *sql.Tx, offerID int, fromStatus, toStatus string) error {
	if !OfferCanTransition(fromStatus, toStatus) {
		return &models.InvalidTransitionError{From: fromStatus, To: toStatus}
	}
	res, err := tx.ExecContext(ctx, `UPDATE offers SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`, toStatus, offerID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
