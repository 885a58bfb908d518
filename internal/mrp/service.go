package mrp

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"mrplan/internal/catalog"
	"mrplan/internal/inventory/stocks"
	"mrplan/internal/production"
	"mrplan/pkg/auditlog"
	"mrplan/pkg/metadata"
	"mrplan/pkg/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidHorizon  = errors.New("planning horizon must be a positive number of days")
	ErrRunNotFound     = errors.New("MRP run not found")
	ErrRunStillRunning = errors.New("cannot delete an MRP run that is still running")
)

// AuditRecorder is the slice of pkg/auditlog the service needs.
type AuditRecorder interface {
	LogAs(action string, userID *int, item auditlog.Auditable, oldValues, newValues interface{})
}

type Service struct {
	runRepo   RunRepository
	orderRepo production.OrderRepository
	itemRepo  catalog.ItemRepository
	stockRepo stocks.StockRepository
	exploder  Exploder
	auditLog  AuditRecorder
	logger    *zap.Logger
}

func NewService(
	runRepo RunRepository,
	orderRepo production.OrderRepository,
	itemRepo catalog.ItemRepository,
	stockRepo stocks.StockRepository,
	exploder Exploder,
	auditLog AuditRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		runRepo:   runRepo,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		stockRepo: stockRepo,
		exploder:  exploder,
		auditLog:  auditLog,
		logger:    logger,
	}
}

// orderRequirements holds one demand record's exploded components in a
// deterministic order.
type orderRequirements struct {
	order      models.ProductionOrder
	components []int
	quantities map[int]decimal.Decimal
}

// ExecuteRun performs a full MRP run: loads released demand within the
// horizon, explodes every order's BOM, nets requirements against on-hand
// stock and persists one requirement row per (order, component) pair. The
// run header is finalized as completed or failed; a failed run keeps
// whatever rows were already written for inspection.
func (s *Service) ExecuteRun(planningHorizonDays int, userID *int) (*models.MRPRun, error) {
	if planningHorizonDays <= 0 {
		return nil, ErrInvalidHorizon
	}

	runDate := time.Now()
	runNumber := metadata.NewRunNumber(runDate).GenerateRunNumber()

	runID, err := s.runRepo.CreateRun(models.MRPRun{
		RunNumber:           runNumber,
		RunDate:             runDate,
		PlanningHorizonDays: planningHorizonDays,
		Status:              string(metadata.RunStatusRunning),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MRP run header: %w", err)
	}

	s.logger.Info("MRP run started",
		zap.String("run_number", runNumber),
		zap.Int("planning_horizon_days", planningHorizonDays),
	)

	cutoff := runDate.AddDate(0, 0, planningHorizonDays)

	demand, err := s.orderRepo.FindReleasedDemand(cutoff)
	if err != nil {
		return nil, s.failRun(runID, runNumber, userID, fmt.Errorf("failed to load released demand: %w", err))
	}

	if len(demand) == 0 {
		note := "No released demand within planning horizon"
		if err := s.runRepo.UpdateRun(runID, metadata.RunStatusCompleted, 0, 0, note); err != nil {
			return nil, s.failRun(runID, runNumber, userID, err)
		}
		s.recordTerminalAudit(runID, runNumber, userID, metadata.RunStatusCompleted, 0, 0)
		return s.runRepo.GetRun(runID)
	}

	exploded := make([]orderRequirements, 0, len(demand))
	componentSet := make(map[int]bool)

	for _, order := range demand {
		quantities, err := s.exploder.Explode(order.ItemID, order.OutstandingQuantity())
		if err != nil {
			return nil, s.failRun(runID, runNumber, userID,
				fmt.Errorf("failed to explode BOM for order %s: %w", order.OrderNumber, err))
		}

		components := make([]int, 0, len(quantities))
		for componentID := range quantities {
			components = append(components, componentID)
			componentSet[componentID] = true
		}
		sort.Ints(components)

		exploded = append(exploded, orderRequirements{
			order:      order,
			components: components,
			quantities: quantities,
		})
	}

	componentIDs := make([]int, 0, len(componentSet))
	for componentID := range componentSet {
		componentIDs = append(componentIDs, componentID)
	}
	sort.Ints(componentIDs)

	onHand, err := s.stockRepo.GetOnHandQuantities(componentIDs)
	if err != nil {
		return nil, s.failRun(runID, runNumber, userID, fmt.Errorf("failed to load on-hand stock: %w", err))
	}

	// Remaining stock per item, consumed row by row in demand date order so
	// two orders never count the same stock as available twice.
	remaining := make(map[int]decimal.Decimal, len(onHand))
	for itemID, quantity := range onHand {
		remaining[itemID] = quantity
	}

	var totalRequirements, totalShortages int
	var warnings []string

	for _, entry := range exploded {
		for _, componentID := range entry.components {
			requiredQty := entry.quantities[componentID]

			item, err := s.itemRepo.FindItem(componentID)
			if err != nil {
				return nil, s.failRun(runID, runNumber, userID,
					fmt.Errorf("failed to resolve component item %d: %w", componentID, err))
			}
			if item == nil {
				// A BOM line pointing at a missing item is skipped, not
				// fatal, but it must be visible in the run record.
				warning := fmt.Sprintf("component item %d referenced by order %s could not be resolved; requirement skipped",
					componentID, entry.order.OrderNumber)
				warnings = append(warnings, warning)
				s.logger.Warn("skipping unresolved component item",
					zap.String("run_number", runNumber),
					zap.Int("item_id", componentID),
					zap.String("order_number", entry.order.OrderNumber),
				)
				continue
			}

			availableQty := remaining[componentID]
			if availableQty.GreaterThan(requiredQty) {
				availableQty = requiredQty
			}
			remaining[componentID] = remaining[componentID].Sub(availableQty)

			shortageQty := requiredQty.Sub(availableQty)
			if shortageQty.IsNegative() {
				shortageQty = decimal.Zero
			}

			status := metadata.RequirementStatusSufficient
			if shortageQty.IsPositive() {
				status = metadata.RequirementStatusShortage
			}

			if _, err := s.runRepo.CreateRequirement(models.MRPRequirement{
				MRPRunID:          runID,
				ProductionOrderID: entry.order.ID,
				ItemID:            componentID,
				RequiredQuantity:  requiredQty,
				AvailableQuantity: availableQty,
				ShortageQuantity:  shortageQty,
				RequiredDate:      entry.order.RequiredDate,
				Status:            string(status),
			}); err != nil {
				return nil, s.failRun(runID, runNumber, userID, err)
			}

			totalRequirements++
			if status == metadata.RequirementStatusShortage {
				totalShortages++
			}
		}
	}

	notes := ""
	if len(warnings) > 0 {
		notes = strings.Join(warnings, "; ")
	}

	if err := s.runRepo.UpdateRun(runID, metadata.RunStatusCompleted, totalRequirements, totalShortages, notes); err != nil {
		return nil, s.failRun(runID, runNumber, userID, err)
	}

	s.logger.Info("MRP run completed",
		zap.String("run_number", runNumber),
		zap.Int("total_requirements", totalRequirements),
		zap.Int("total_shortages", totalShortages),
	)

	s.recordTerminalAudit(runID, runNumber, userID, metadata.RunStatusCompleted, totalRequirements, totalShortages)

	return s.runRepo.GetRun(runID)
}

// failRun marks the run failed with the error text, records a failure audit
// entry and hands the original error back for propagation. Requirement rows
// already written stay in place for inspection.
func (s *Service) failRun(runID int, runNumber string, userID *int, cause error) error {
	if err := s.runRepo.UpdateRun(runID, metadata.RunStatusFailed, 0, 0, cause.Error()); err != nil {
		s.logger.Error("failed to mark MRP run as failed",
			zap.String("run_number", runNumber),
			zap.Error(err),
		)
	}

	s.logger.Error("MRP run failed",
		zap.String("run_number", runNumber),
		zap.Error(cause),
	)

	run := models.MRPRun{ID: runID, RunNumber: runNumber}
	s.auditLog.LogAs("run_failed", userID, &run, nil, map[string]interface{}{
		"run_number": runNumber,
		"status":     string(metadata.RunStatusFailed),
		"error":      cause.Error(),
	})

	return cause
}

func (s *Service) recordTerminalAudit(runID int, runNumber string, userID *int, status metadata.RunStatus, totalRequirements, totalShortages int) {
	run := models.MRPRun{ID: runID, RunNumber: runNumber}
	s.auditLog.LogAs("run_completed", userID, &run, nil, map[string]interface{}{
		"run_number":         runNumber,
		"status":             string(status),
		"total_requirements": totalRequirements,
		"total_shortages":    totalShortages,
	})
}

// AbortRun moves a stuck running run to failed so operators can reconcile
// after a crash left it orphaned. Terminal runs are rejected.
func (s *Service) AbortRun(runID int, userID *int, reason string) error {
	run, err := s.runRepo.GetRun(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return ErrRunNotFound
	}

	if metadata.RunStatus(run.Status).IsTerminal() {
		return fmt.Errorf("MRP run %s already in status %s", run.RunNumber, run.Status)
	}

	notes := "aborted by operator"
	if reason != "" {
		notes = notes + ": " + reason
	}

	if err := s.runRepo.UpdateRun(runID, metadata.RunStatusFailed, run.TotalRequirements, run.TotalShortages, notes); err != nil {
		return err
	}

	s.auditLog.LogAs("run_aborted", userID, run, map[string]interface{}{
		"status": run.Status,
	}, map[string]interface{}{
		"run_number": run.RunNumber,
		"status":     string(metadata.RunStatusFailed),
		"notes":      notes,
	})

	return nil
}

// DeleteRun removes a non-running run and all its requirement rows.
func (s *Service) DeleteRun(runID int, userID *int) error {
	run, err := s.runRepo.GetRun(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return ErrRunNotFound
	}

	if metadata.RunStatus(run.Status) == metadata.RunStatusRunning {
		return ErrRunStillRunning
	}

	if err := s.runRepo.DeleteRun(runID); err != nil {
		return err
	}

	s.auditLog.LogAs("delete", userID, run, map[string]interface{}{
		"run_number":         run.RunNumber,
		"status":             run.Status,
		"total_requirements": run.TotalRequirements,
		"total_shortages":    run.TotalShortages,
	}, nil)

	return nil
}
