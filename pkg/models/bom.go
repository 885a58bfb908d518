package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BOM struct {
	ID        int       `json:"id" db:"id"`
	ItemID    int       `json:"item_id" db:"item_id"`
	Version   string    `json:"version" db:"version"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Lines     []BOMLine `json:"lines" db:"-"`
}

type BOMLine struct {
	ID              int             `json:"id" db:"id"`
	BOMID           int             `json:"bom_id" db:"bom_id"`
	LineNumber      int             `json:"line_number" db:"line_number"`
	ComponentItemID int             `json:"component_item_id" db:"component_item_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit" db:"quantity_per_unit"`
	// Whole-number percentage, e.g. 5 means 5% expected waste.
	ScrapPercentage decimal.Decimal `json:"scrap_percentage" db:"scrap_percentage"`
}
