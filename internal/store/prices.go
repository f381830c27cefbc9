package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type PriceStore struct {
	db *sqlx.DB
}

func (ps *PriceStore) Insert(ctx context.Context, point *PricePoint) error {
	query := `INSERT INTO price_history (
		item_code,
		price,
		volume,
		highest_buy,
		lowest_sell,
		timestamp
	) VALUES (
		:item_code,
		:price,
		:volume,
		:highest_buy,
		:lowest_sell,
		:timestamp
	)`

	_, err := ps.db.NamedExecContext(ctx, query, point)
	return err
}

func (ps *PriceStore) GetHistory(ctx context.Context, itemCode string, since time.Time) ([]PricePoint, error) {
	points := []PricePoint{}
	err := ps.db.SelectContext(ctx, &points,
		`SELECT id, item_code, price, volume, highest_buy, lowest_sell, timestamp
		 FROM price_history
		 WHERE item_code = $1 AND timestamp >= $2
		 ORDER BY timestamp ASC`, itemCode, since)
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (ps *PriceStore) GetLatest(ctx context.Context, itemCode string) (*PricePoint, error) {
	var point PricePoint
	err := ps.db.GetContext(ctx, &point,
		`SELECT id, item_code, price, volume, highest_buy, lowest_sell, timestamp
		 FROM price_history
		 WHERE item_code = $1
		 ORDER BY timestamp DESC
		 LIMIT 1`, itemCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &point, nil
}
