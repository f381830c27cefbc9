package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type OrderStore struct {
	db *sqlx.DB
}

// ReplaceSnapshot deletes the stale order rows for an item and inserts the
// fresh top-N snapshot, all at the same timestamp.
func (os *OrderStore) ReplaceSnapshot(ctx context.Context, itemCode string, taken time.Time, orders []TradingOrder) error {
	tx, err := os.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM trading_orders WHERE item_code = $1 AND timestamp < $2`,
		itemCode, taken); err != nil {
		return fmt.Errorf("delete stale orders for %s: %w", itemCode, err)
	}

	query := `INSERT INTO trading_orders (
		item_code,
		type,
		price,
		quantity,
		timestamp
	) VALUES (
		:item_code,
		:type,
		:price,
		:quantity,
		:timestamp
	)`

	for i := range orders {
		orders[i].ItemCode = itemCode
		orders[i].Timestamp = taken
		if _, err := tx.NamedExecContext(ctx, query, &orders[i]); err != nil {
			return fmt.Errorf("insert order for %s: %w", itemCode, err)
		}
	}

	return tx.Commit()
}

// GetCurrent returns the orders from the most recent snapshot, buys sorted
// by price descending and sells ascending.
func (os *OrderStore) GetCurrent(ctx context.Context, itemCode string) ([]TradingOrder, error) {
	var latest time.Time
	err := os.db.GetContext(ctx, &latest,
		`SELECT timestamp FROM trading_orders
		 WHERE item_code = $1
		 ORDER BY timestamp DESC LIMIT 1`, itemCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []TradingOrder{}, nil
		}
		return nil, err
	}

	orders := []TradingOrder{}
	err = os.db.SelectContext(ctx, &orders,
		`SELECT id, item_code, type, price, quantity, timestamp
		 FROM trading_orders
		 WHERE item_code = $1 AND timestamp = $2
		 ORDER BY type ASC,
		          CASE WHEN type = 'buy' THEN -price ELSE price END ASC`,
		itemCode, latest)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (os *OrderStore) GetRecent(ctx context.Context, itemCode string, limit int) ([]TradingOrder, error) {
	orders := []TradingOrder{}
	err := os.db.SelectContext(ctx, &orders,
		`SELECT id, item_code, type, price, quantity, timestamp
		 FROM trading_orders
		 WHERE item_code = $1
		 ORDER BY timestamp DESC
		 LIMIT $2`, itemCode, limit)
	if err != nil {
		return nil, err
	}
	return orders, nil
}
