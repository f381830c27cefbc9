package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type ItemStore struct {
	db *sqlx.DB
}

func (is *ItemStore) Upsert(ctx context.Context, item *Item) error {
	query := `INSERT INTO items (
		code,
		name,
		icon,
		display_order,
		production_points,
		production_needs
	) VALUES (
		:code,
		:name,
		:icon,
		:display_order,
		:production_points,
		:production_needs
	) ON CONFLICT (code) DO UPDATE SET
		name = EXCLUDED.name,
		icon = EXCLUDED.icon,
		display_order = EXCLUDED.display_order,
		production_points = EXCLUDED.production_points,
		production_needs = EXCLUDED.production_needs`

	_, err := is.db.NamedExecContext(ctx, query, item)
	return err
}

func (is *ItemStore) GetAll(ctx context.Context) ([]Item, error) {
	items := []Item{}
	err := is.db.SelectContext(ctx, &items,
		`SELECT code, name, icon, display_order, production_points, production_needs
		 FROM items ORDER BY display_order ASC`)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (is *ItemStore) GetByCode(ctx context.Context, code string) (*Item, error) {
	var item Item
	err := is.db.GetContext(ctx, &item,
		`SELECT code, name, icon, display_order, production_points, production_needs
		 FROM items WHERE code = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}
