package mrp

import (
	"fmt"

	"mrplan/internal/repository"
	custom_error "mrplan/pkg/errors"
	"mrplan/pkg/metadata"
	"mrplan/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type RunRepository interface {
	CreateRun(run models.MRPRun) (int, error)
	UpdateRun(runID int, status metadata.RunStatus, totalRequirements, totalShortages int, notes string) error
	CreateRequirement(req models.MRPRequirement) (int, error)
	GetRun(runID int) (*models.MRPRun, error)
	GetRuns(conditions repository.QueryBuilder, limit, offset uint) (*[]models.MRPRun, error)
	GetRequirements(runID int) (*[]models.MRPRequirement, error)
	GetShortages(runID int) (*[]models.MRPRequirement, error)
	DeleteRun(runID int) error
}

type runRepository struct {
	Repo *repository.Repository
}

func NewRunRepository(r *repository.Repository) *runRepository {
	return &runRepository{Repo: r}
}

func (r *runRepository) CreateRun(run models.MRPRun) (int, error) {
	query := r.Repo.GoquDBWrapper.Insert("mrp_runs").
		Rows(goqu.Record{
			"run_number":            run.RunNumber,
			"run_date":              run.RunDate,
			"planning_horizon_days": run.PlanningHorizonDays,
			"status":                run.Status,
			"total_requirements":    0,
			"total_shortages":       0,
			"notes":                 run.Notes,
		}).
		Returning("id")

	var runID int
	if _, err := query.Executor().ScanVal(&runID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, custom_error.WrapDBError("Duplicate run number "+run.RunNumber, string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert MRP run record: %w", err)
	}

	return runID, nil
}

func (r *runRepository) UpdateRun(runID int, status metadata.RunStatus, totalRequirements, totalShortages int, notes string) error {
	query := r.Repo.GoquDBWrapper.
		Update("mrp_runs").
		Set(goqu.Record{
			"status":             string(status),
			"total_requirements": totalRequirements,
			"total_shortages":    totalShortages,
			"notes":              notes,
		}).
		Where(goqu.Ex{"id": runID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update MRP run %d: %w", runID, err)
	}

	return nil
}

func (r *runRepository) CreateRequirement(req models.MRPRequirement) (int, error) {
	query := r.Repo.GoquDBWrapper.Insert("mrp_requirements").
		Rows(goqu.Record{
			"mrp_run_id":          req.MRPRunID,
			"production_order_id": req.ProductionOrderID,
			"item_id":             req.ItemID,
			"required_quantity":   req.RequiredQuantity,
			"available_quantity":  req.AvailableQuantity,
			"shortage_quantity":   req.ShortageQuantity,
			"required_date":       req.RequiredDate,
			"status":              req.Status,
		}).
		Returning("id")

	var requirementID int
	if _, err := query.Executor().ScanVal(&requirementID); err != nil {
		return 0, fmt.Errorf("failed to insert MRP requirement record: %w", err)
	}

	return requirementID, nil
}

func (r *runRepository) GetRun(runID int) (*models.MRPRun, error) {
	var run models.MRPRun

	query := r.Repo.GoquDBWrapper.
		From("mrp_runs").
		Select("id", "run_number", "run_date", "planning_horizon_days", "status",
			"total_requirements", "total_shortages", "notes", "created_at").
		Where(goqu.Ex{"id": runID})

	found, err := query.Executor().ScanStruct(&run)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &run, nil
}

func (r *runRepository) GetRuns(conditions repository.QueryBuilder, limit, offset uint) (*[]models.MRPRun, error) {
	query := r.Repo.GoquDBWrapper.
		From(goqu.T("mrp_runs").As("r")).
		Select(
			goqu.I("r.id").As("id"),
			goqu.I("r.run_number").As("run_number"),
			goqu.I("r.run_date").As("run_date"),
			goqu.I("r.planning_horizon_days").As("planning_horizon_days"),
			goqu.I("r.status").As("status"),
			goqu.I("r.total_requirements").As("total_requirements"),
			goqu.I("r.total_shortages").As("total_shortages"),
			goqu.I("r.notes").As("notes"),
			goqu.I("r.created_at").As("created_at"),
		).
		Order(goqu.I("r.run_date").Desc())

	if conditions != nil && conditions.HasConditions() {
		aliases := map[string]string{
			"status":   "r.status",
			"run_date": "r.run_date",
		}
		query = query.Where(conditions.BuildConditions(aliases)...)
	}

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var runs []models.MRPRun
	if err := query.Executor().ScanStructs(&runs); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return &runs, nil
}

func (r *runRepository) getRequirementRows(runID int, shortagesOnly bool) (*[]models.MRPRequirement, error) {
	query := r.Repo.GoquDBWrapper.
		From(goqu.T("mrp_requirements").As("q")).
		Select(
			goqu.I("q.id").As("id"),
			goqu.I("q.mrp_run_id").As("mrp_run_id"),
			goqu.I("q.production_order_id").As("production_order_id"),
			goqu.I("q.item_id").As("item_id"),
			goqu.COALESCE(goqu.I("i.item_code"), goqu.V("")).As("item_code"),
			goqu.COALESCE(goqu.I("i.item_name"), goqu.V("")).As("item_name"),
			goqu.I("q.required_quantity").As("required_quantity"),
			goqu.I("q.available_quantity").As("available_quantity"),
			goqu.I("q.shortage_quantity").As("shortage_quantity"),
			goqu.I("q.required_date").As("required_date"),
			goqu.I("q.status").As("status"),
			goqu.I("q.created_at").As("created_at"),
		).
		LeftJoin(
			goqu.T("items").As("i"),
			goqu.On(goqu.Ex{"q.item_id": goqu.I("i.id")}),
		).
		Where(goqu.Ex{"q.mrp_run_id": runID}).
		Order(goqu.I("q.production_order_id").Asc(), goqu.I("q.item_id").Asc())

	if shortagesOnly {
		query = query.Where(goqu.Ex{"q.status": string(metadata.RequirementStatusShortage)})
	}

	var requirements []models.MRPRequirement
	if err := query.Executor().ScanStructs(&requirements); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return &requirements, nil
}

func (r *runRepository) GetRequirements(runID int) (*[]models.MRPRequirement, error) {
	return r.getRequirementRows(runID, false)
}

func (r *runRepository) GetShortages(runID int) (*[]models.MRPRequirement, error) {
	return r.getRequirementRows(runID, true)
}

// DeleteRun removes the run's requirement rows and then the header in one
// transaction. Status guards live in the service layer.
func (r *runRepository) DeleteRun(runID int) error {
	return repository.WithTransaction(r.Repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		deleteRequirements := tx.Delete("mrp_requirements").
			Where(goqu.Ex{"mrp_run_id": runID})

		if _, err := deleteRequirements.Executor().Exec(); err != nil {
			return fmt.Errorf("failed to delete MRP requirements for run %d: %w", runID, err)
		}

		deleteHeader := tx.Delete("mrp_runs").
			Where(goqu.Ex{"id": runID})

		if _, err := deleteHeader.Executor().Exec(); err != nil {
			return fmt.Errorf("failed to delete MRP run %d: %w", runID, err)
		}

		return nil
	})
}
