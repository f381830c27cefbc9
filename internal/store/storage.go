package store

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("record not found")

type Storage struct {
	Items interface {
		Upsert(ctx context.Context, item *Item) error
		GetAll(ctx context.Context) ([]Item, error)
		GetByCode(ctx context.Context, code string) (*Item, error)
	}

	Companies interface {
		Replace(ctx context.Context, company *Company, workers []Worker) error
		GetByID(ctx context.Context, companyID string) (*Company, error)
		GetByUserID(ctx context.Context, userID string) ([]Company, error)
		GetWorkers(ctx context.Context, companyID string) ([]Worker, error)
	}

	Prices interface {
		Insert(ctx context.Context, point *PricePoint) error
		GetHistory(ctx context.Context, itemCode string, since time.Time) ([]PricePoint, error)
		GetLatest(ctx context.Context, itemCode string) (*PricePoint, error)
	}

	Orders interface {
		ReplaceSnapshot(ctx context.Context, itemCode string, taken time.Time, orders []TradingOrder) error
		GetCurrent(ctx context.Context, itemCode string) ([]TradingOrder, error)
		GetRecent(ctx context.Context, itemCode string, limit int) ([]TradingOrder, error)
	}

	Production interface {
		Upsert(ctx context.Context, record *ProductionRecord) error
		GetSince(ctx context.Context, companyID string, since time.Time) ([]ProductionRecord, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Items:      &ItemStore{db: db},
		Companies:  &CompanyStore{db: db},
		Prices:     &PriceStore{db: db},
		Orders:     &OrderStore{db: db},
		Production: &ProductionStore{db: db},
	}
}
