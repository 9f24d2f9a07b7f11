package store

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "github.com/abgdnv/catalog/internal/catalog/errors"
	"github.com/abgdnv/catalog/internal/catalog/store/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE of a UNIQUE constraint violation.
const uniqueViolation = "23505"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

func (p *PgStore) FindAll(ctx context.Context) ([]db.Product, error) {
	products, err := p.q.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalogerrors.ErrFailedToFindProduct, err)
	}
	return products, nil
}

func (p *PgStore) FindByID(ctx context.Context, id int64) (*db.Product, error) {
	product, err := p.q.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %w", catalogerrors.ErrFailedToFindProduct, err)
	}
	return &product, nil
}

func (p *PgStore) FindByUPC(ctx context.Context, upc string) (*db.Product, error) {
	product, err := p.q.FindByUPC(ctx, upc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %w", catalogerrors.ErrFailedToFindProduct, err)
	}
	return &product, nil
}

// Create inserts the product. A UPC collision that slips past the caller's pre-check
// is reported as ErrDuplicateKey by the UNIQUE constraint.
func (p *PgStore) Create(ctx context.Context, params db.CreateParams) (*db.Product, error) {
	product, err := p.q.Create(ctx, params)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, catalogerrors.ErrDuplicateKey
		}
		return nil, fmt.Errorf("%w: %w", catalogerrors.ErrCreateProduct, err)
	}
	return &product, nil
}

func (p *PgStore) SetHasImage(ctx context.Context, id int64) error {
	if _, err := p.q.SetHasImage(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", catalogerrors.ErrUpdateProduct, err)
	}
	return nil
}

func (p *PgStore) DeleteWithRecommendations(ctx context.Context, id int64) (int64, error) {
	var deleted int64

	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		if _, err := qtx.DeleteRecommendationsBySource(ctx, id); err != nil {
			return fmt.Errorf("%w: recommendations by source: %w", catalogerrors.ErrDeleteProduct, err)
		}
		if _, err := qtx.DeleteRecommendationsByRecommended(ctx, id); err != nil {
			return fmt.Errorf("%w: recommendations by target: %w", catalogerrors.ErrDeleteProduct, err)
		}
		count, err := qtx.DeleteByID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: %w", catalogerrors.ErrDeleteProduct, err)
		}
		deleted = count
		return nil
	})

	if txErr != nil {
		return 0, txErr
	}

	return deleted, nil
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(qtx *db.Queries) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", catalogerrors.ErrTransactionBegin, err)
	}
	qtx := p.q.WithTx(tx)

	err = fn(qtx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w: %w", catalogerrors.ErrTransactionRollback, errors.Join(err, rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", catalogerrors.ErrTransactionCommit, err)
	}

	return nil
}
