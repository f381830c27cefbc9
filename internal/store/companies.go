package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type CompanyStore struct {
	db *sqlx.DB
}

// Replace upserts the company row and recreates its worker set inside a
// single transaction, so readers never observe a company with half a roster.
func (cs *CompanyStore) Replace(ctx context.Context, company *Company, workers []Worker) error {
	tx, err := cs.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	companyQuery := `INSERT INTO companies (
		company_id,
		user_id,
		name,
		type,
		region,
		production_value,
		max_production,
		energy_consumption,
		automated_engine_level,
		last_fetched
	) VALUES (
		:company_id,
		:user_id,
		:name,
		:type,
		:region,
		:production_value,
		:max_production,
		:energy_consumption,
		:automated_engine_level,
		:last_fetched
	) ON CONFLICT (company_id) DO UPDATE SET
		user_id = EXCLUDED.user_id,
		name = EXCLUDED.name,
		type = EXCLUDED.type,
		region = EXCLUDED.region,
		production_value = EXCLUDED.production_value,
		max_production = EXCLUDED.max_production,
		energy_consumption = EXCLUDED.energy_consumption,
		automated_engine_level = EXCLUDED.automated_engine_level,
		last_fetched = EXCLUDED.last_fetched`

	if _, err := tx.NamedExecContext(ctx, companyQuery, company); err != nil {
		return fmt.Errorf("upsert company %s: %w", company.CompanyID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM workers WHERE company_id = $1`, company.CompanyID); err != nil {
		return fmt.Errorf("delete workers for %s: %w", company.CompanyID, err)
	}

	workerQuery := `INSERT INTO workers (
		worker_id,
		company_id,
		user_id,
		username,
		avatar_url,
		wage,
		max_energy,
		production,
		fidelity
	) VALUES (
		:worker_id,
		:company_id,
		:user_id,
		:username,
		:avatar_url,
		:wage,
		:max_energy,
		:production,
		:fidelity
	)`

	for i := range workers {
		workers[i].CompanyID = company.CompanyID
		if _, err := tx.NamedExecContext(ctx, workerQuery, &workers[i]); err != nil {
			return fmt.Errorf("insert worker %s: %w", workers[i].WorkerID, err)
		}
	}

	return tx.Commit()
}

func (cs *CompanyStore) GetByID(ctx context.Context, companyID string) (*Company, error) {
	var company Company
	err := cs.db.GetContext(ctx, &company,
		`SELECT company_id, user_id, name, type, region, production_value,
		        max_production, energy_consumption, automated_engine_level, last_fetched
		 FROM companies WHERE company_id = $1`, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (cs *CompanyStore) GetByUserID(ctx context.Context, userID string) ([]Company, error) {
	companies := []Company{}
	err := cs.db.SelectContext(ctx, &companies,
		`SELECT company_id, user_id, name, type, region, production_value,
		        max_production, energy_consumption, automated_engine_level, last_fetched
		 FROM companies WHERE user_id = $1 ORDER BY name ASC`, userID)
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (cs *CompanyStore) GetWorkers(ctx context.Context, companyID string) ([]Worker, error) {
	workers := []Worker{}
	err := cs.db.SelectContext(ctx, &workers,
		`SELECT worker_id, company_id, user_id, username, avatar_url, wage,
		        max_energy, production, fidelity
		 FROM workers WHERE company_id = $1`, companyID)
	if err != nil {
		return nil, err
	}
	return workers, nil
}
