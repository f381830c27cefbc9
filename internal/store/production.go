package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type ProductionStore struct {
	db *sqlx.DB
}

// Upsert writes one row per (company, day). A second call for the same day
// overwrites the previous figures.
func (ps *ProductionStore) Upsert(ctx context.Context, record *ProductionRecord) error {
	query := `INSERT INTO production_history (
		company_id,
		date,
		actual_pp,
		expected_pp,
		variance
	) VALUES (
		:company_id,
		:date,
		:actual_pp,
		:expected_pp,
		:variance
	) ON CONFLICT (company_id, date) DO UPDATE SET
		actual_pp = EXCLUDED.actual_pp,
		expected_pp = EXCLUDED.expected_pp,
		variance = EXCLUDED.variance`

	_, err := ps.db.NamedExecContext(ctx, query, record)
	return err
}

func (ps *ProductionStore) GetSince(ctx context.Context, companyID string, since time.Time) ([]ProductionRecord, error) {
	records := []ProductionRecord{}
	err := ps.db.SelectContext(ctx, &records,
		`SELECT company_id, date, actual_pp, expected_pp, variance
		 FROM production_history
		 WHERE company_id = $1 AND date >= $2
		 ORDER BY date ASC`, companyID, since)
	if err != nil {
		return nil, err
	}
	return records, nil
}
