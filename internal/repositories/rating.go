package repositories

import (
	"context"
	"database/sql"
)

func getCompanyRating(ctx context.Context, db *sql.DB, companyID int) (float64, int) {
	var avg sql.NullFloat64
	var count int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(AVG(rating),0), COUNT(*) FROM company_reviews WHERE company_id = ?`, companyID).Scan(&avg, &count)
	if err != nil {
		return 0, 0
	}
	if avg.Valid {
		return avg.Float64, count
	}
	return 0, count
}
