package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductionOrder struct {
	ID               int             `json:"id" db:"id"`
	OrderNumber      string          `json:"order_number" db:"order_number"`
	ItemID           int             `json:"item_id" db:"item_id"`
	QuantityOrdered  decimal.Decimal `json:"quantity_ordered" db:"quantity_ordered"`
	QuantityProduced decimal.Decimal `json:"quantity_produced" db:"quantity_produced"`
	RequiredDate     time.Time       `json:"required_date" db:"required_date"`
	Status           string          `json:"status" db:"status"`
}

// OutstandingQuantity is the demand an order still contributes to planning.
func (o *ProductionOrder) OutstandingQuantity() decimal.Decimal {
	return o.QuantityOrdered.Sub(o.QuantityProduced)
}
