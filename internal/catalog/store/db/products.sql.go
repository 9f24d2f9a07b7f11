package db

import (
	"context"

	"github.com/shopspring/decimal"
)

const create = `-- name: Create :one
INSERT INTO products (name, description, category, upc, price)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, description, category, upc, price, has_image
`

type CreateParams struct {
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	Category    *string             `json:"category"`
	Upc         string              `json:"upc"`
	Price       decimal.NullDecimal `json:"price"`
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Product, error) {
	row := q.db.QueryRow(ctx, create,
		arg.Name,
		arg.Description,
		arg.Category,
		arg.Upc,
		arg.Price,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Category,
		&i.Upc,
		&i.Price,
		&i.HasImage,
	)
	return i, err
}

const deleteByID = `-- name: DeleteByID :execrows
DELETE FROM products
WHERE id = $1
`

func (q *Queries) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteByID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteRecommendationsByRecommended = `-- name: DeleteRecommendationsByRecommended :execrows
DELETE FROM saved_recommendations
WHERE recommended_product_id = $1
`

func (q *Queries) DeleteRecommendationsByRecommended(ctx context.Context, recommendedProductID int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteRecommendationsByRecommended, recommendedProductID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteRecommendationsBySource = `-- name: DeleteRecommendationsBySource :execrows
DELETE FROM saved_recommendations
WHERE source_product_id = $1
`

func (q *Queries) DeleteRecommendationsBySource(ctx context.Context, sourceProductID int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteRecommendationsBySource, sourceProductID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const findAll = `-- name: FindAll :many
SELECT id, name, description, category, upc, price, has_image
FROM products
ORDER BY id ASC
`

func (q *Queries) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, findAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.Category,
			&i.Upc,
			&i.Price,
			&i.HasImage,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findByID = `-- name: FindByID :one
SELECT id, name, description, category, upc, price, has_image
FROM products
WHERE id = $1
`

func (q *Queries) FindByID(ctx context.Context, id int64) (Product, error) {
	row := q.db.QueryRow(ctx, findByID, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Category,
		&i.Upc,
		&i.Price,
		&i.HasImage,
	)
	return i, err
}

const findByUPC = `-- name: FindByUPC :one
SELECT id, name, description, category, upc, price, has_image
FROM products
WHERE upc = $1
`

func (q *Queries) FindByUPC(ctx context.Context, upc string) (Product, error) {
	row := q.db.QueryRow(ctx, findByUPC, upc)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Category,
		&i.Upc,
		&i.Price,
		&i.HasImage,
	)
	return i, err
}

const setHasImage = `-- name: SetHasImage :execrows
UPDATE products
SET has_image = TRUE
WHERE id = $1
`

func (q *Queries) SetHasImage(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, setHasImage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
