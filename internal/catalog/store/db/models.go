package db

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	Category    *string             `json:"category"`
	Upc         string              `json:"upc"`
	Price       decimal.NullDecimal `json:"price"`
	HasImage    bool                `json:"has_image"`
}
