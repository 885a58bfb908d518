package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MRPRun struct {
	ID                  int       `json:"id" db:"id"`
	RunNumber           string    `json:"run_number" db:"run_number"`
	RunDate             time.Time `json:"run_date" db:"run_date"`
	PlanningHorizonDays int       `json:"planning_horizon_days" db:"planning_horizon_days"`
	Status              string    `json:"status" db:"status"`
	TotalRequirements   int       `json:"total_requirements" db:"total_requirements"`
	TotalShortages      int       `json:"total_shortages" db:"total_shortages"`
	Notes               string    `json:"notes" db:"notes"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

func (r *MRPRun) CreateLogView() AuditLog {
	return AuditLog{
		RecordID:   r.ID,
		RecordType: "mrp_run",
		Module:     "mrp",
	}
}

type MRPRequirement struct {
	ID                int             `json:"id" db:"id"`
	MRPRunID          int             `json:"mrp_run_id" db:"mrp_run_id"`
	ProductionOrderID int             `json:"production_order_id" db:"production_order_id"`
	ItemID            int             `json:"item_id" db:"item_id"`
	ItemCode          string          `json:"item_code,omitempty" db:"item_code"`
	ItemName          string          `json:"item_name,omitempty" db:"item_name"`
	RequiredQuantity  decimal.Decimal `json:"required_quantity" db:"required_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity" db:"available_quantity"`
	ShortageQuantity  decimal.Decimal `json:"shortage_quantity" db:"shortage_quantity"`
	RequiredDate      time.Time       `json:"required_date" db:"required_date"`
	Status            string          `json:"status" db:"status"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}
