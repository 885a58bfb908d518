package mrp

import (
	"errors"
	"testing"
	"time"

	"mrplan/internal/repository"
	"mrplan/pkg/auditlog"
	"mrplan/pkg/metadata"
	"mrplan/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) CreateRun(run models.MRPRun) (int, error) {
	args := m.Called(run)
	return args.Int(0), args.Error(1)
}

func (m *MockRunRepository) UpdateRun(runID int, status metadata.RunStatus, totalRequirements, totalShortages int, notes string) error {
	args := m.Called(runID, status, totalRequirements, totalShortages, notes)
	return args.Error(0)
}

func (m *MockRunRepository) CreateRequirement(req models.MRPRequirement) (int, error) {
	args := m.Called(req)
	return args.Int(0), args.Error(1)
}

func (m *MockRunRepository) GetRun(runID int) (*models.MRPRun, error) {
	args := m.Called(runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MRPRun), args.Error(1)
}

func (m *MockRunRepository) GetRuns(conditions repository.QueryBuilder, limit, offset uint) (*[]models.MRPRun, error) {
	args := m.Called(conditions, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*[]models.MRPRun), args.Error(1)
}

func (m *MockRunRepository) GetRequirements(runID int) (*[]models.MRPRequirement, error) {
	args := m.Called(runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*[]models.MRPRequirement), args.Error(1)
}

func (m *MockRunRepository) GetShortages(runID int) (*[]models.MRPRequirement, error) {
	args := m.Called(runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*[]models.MRPRequirement), args.Error(1)
}

func (m *MockRunRepository) DeleteRun(runID int) error {
	args := m.Called(runID)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindReleasedDemand(beforeDate time.Time) ([]models.ProductionOrder, error) {
	args := m.Called(beforeDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductionOrder), args.Error(1)
}

func (m *MockOrderRepository) GetOrder(orderID int) (*models.ProductionOrder, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductionOrder), args.Error(1)
}

func (m *MockOrderRepository) GetOrders(conditions repository.QueryBuilder) (*[]models.ProductionOrder, error) {
	args := m.Called(conditions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*[]models.ProductionOrder), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindItem(itemID int) (*models.Item, error) {
	args := m.Called(itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) FindItemByCode(itemCode string) (*models.Item, error) {
	args := m.Called(itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) GetItems(conditions repository.QueryBuilder) (*[]models.Item, error) {
	args := m.Called(conditions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*[]models.Item), args.Error(1)
}

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) GetOnHandQuantities(itemIDs []int) (map[int]decimal.Decimal, error) {
	args := m.Called(itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]decimal.Decimal), args.Error(1)
}

type MockExploder struct {
	mock.Mock
}

func (m *MockExploder) Explode(itemID int, quantity decimal.Decimal) (map[int]decimal.Decimal, error) {
	args := m.Called(itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]decimal.Decimal), args.Error(1)
}

type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) LogAs(action string, userID *int, item auditlog.Auditable, oldValues, newValues interface{}) {
	m.Called(action, userID, item, oldValues, newValues)
}

type serviceMocks struct {
	runRepo   *MockRunRepository
	orderRepo *MockOrderRepository
	itemRepo  *MockItemRepository
	stockRepo *MockStockRepository
	exploder  *MockExploder
	auditLog  *MockAuditRecorder
}

func newTestService() (*Service, *serviceMocks) {
	mocks := &serviceMocks{
		runRepo:   new(MockRunRepository),
		orderRepo: new(MockOrderRepository),
		itemRepo:  new(MockItemRepository),
		stockRepo: new(MockStockRepository),
		exploder:  new(MockExploder),
		auditLog:  new(MockAuditRecorder),
	}

	service := NewService(
		mocks.runRepo,
		mocks.orderRepo,
		mocks.itemRepo,
		mocks.stockRepo,
		mocks.exploder,
		mocks.auditLog,
		zap.NewNop(),
	)

	return service, mocks
}

func releasedOrder(id int, number string, itemID int, ordered int64) models.ProductionOrder {
	return models.ProductionOrder{
		ID:              id,
		OrderNumber:     number,
		ItemID:          itemID,
		QuantityOrdered: decimal.NewFromInt(ordered),
		Status:          string(metadata.OrderStatusReleased),
		RequiredDate:    time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestExecuteRunRejectsNonPositiveHorizon(t *testing.T) {
	service, mocks := newTestService()

	_, err := service.ExecuteRun(0, nil)

	assert.ErrorIs(t, err, ErrInvalidHorizon)
	mocks.runRepo.AssertNotCalled(t, "CreateRun", mock.Anything)
}

func TestExecuteRunCompletesEmptyWhenNoDemand(t *testing.T) {
	service, mocks := newTestService()

	mocks.runRepo.On("CreateRun", mock.AnythingOfType("models.MRPRun")).Return(1, nil)
	mocks.orderRepo.On("FindReleasedDemand", mock.AnythingOfType("time.Time")).Return([]models.ProductionOrder{}, nil)
	mocks.runRepo.On("UpdateRun", 1, metadata.RunStatusCompleted, 0, 0, "No released demand within planning horizon").Return(nil)
	mocks.auditLog.On("LogAs", "run_completed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	mocks.runRepo.On("GetRun", 1).Return(&models.MRPRun{ID: 1, Status: string(metadata.RunStatusCompleted)}, nil)

	run, err := service.ExecuteRun(30, nil)

	assert.NoError(t, err)
	assert.Equal(t, string(metadata.RunStatusCompleted), run.Status)
	mocks.runRepo.AssertNotCalled(t, "CreateRequirement", mock.Anything)
	mocks.runRepo.AssertExpectations(t)
}

func TestExecuteRunNetsStockSequentiallyAcrossOrders(t *testing.T) {
	service, mocks := newTestService()

	// Two orders need 10 of component 2 each but only 15 are on hand, so the
	// earlier order is covered in full and the later one is short by 5.
	demand := []models.ProductionOrder{
		releasedOrder(11, "PO-001", 1, 10),
		releasedOrder(12, "PO-002", 1, 10),
	}

	mocks.runRepo.On("CreateRun", mock.AnythingOfType("models.MRPRun")).Return(1, nil)
	mocks.orderRepo.On("FindReleasedDemand", mock.AnythingOfType("time.Time")).Return(demand, nil)
	mocks.exploder.On("Explode", 1, mock.Anything).
		Return(map[int]decimal.Decimal{2: decimal.NewFromInt(10)}, nil).Twice()
	mocks.stockRepo.On("GetOnHandQuantities", []int{2}).
		Return(map[int]decimal.Decimal{2: decimal.NewFromInt(15)}, nil)
	mocks.itemRepo.On("FindItem", 2).Return(&models.Item{ID: 2, ItemCode: "CMP-2"}, nil)

	var written []models.MRPRequirement
	mocks.runRepo.On("CreateRequirement", mock.AnythingOfType("models.MRPRequirement")).
		Return(1, nil).
		Run(func(args mock.Arguments) {
			written = append(written, args.Get(0).(models.MRPRequirement))
		})

	mocks.runRepo.On("UpdateRun", 1, metadata.RunStatusCompleted, 2, 1, "").Return(nil)
	mocks.auditLog.On("LogAs", "run_completed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	mocks.runRepo.On("GetRun", 1).Return(&models.MRPRun{
		ID:                1,
		Status:            string(metadata.RunStatusCompleted),
		TotalRequirements: 2,
		TotalShortages:    1,
	}, nil)

	run, err := service.ExecuteRun(30, nil)

	assert.NoError(t, err)
	assert.Equal(t, 2, run.TotalRequirements)
	assert.Equal(t, 1, run.TotalShortages)

	if assert.Len(t, written, 2) {
		first, second := written[0], written[1]

		assert.Equal(t, 11, first.ProductionOrderID)
		assert.True(t, first.AvailableQuantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, first.ShortageQuantity.IsZero())
		assert.Equal(t, string(metadata.RequirementStatusSufficient), first.Status)

		assert.Equal(t, 12, second.ProductionOrderID)
		assert.True(t, second.AvailableQuantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, second.ShortageQuantity.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, string(metadata.RequirementStatusShortage), second.Status)
	}

	mocks.runRepo.AssertExpectations(t)
}

func TestExecuteRunTreatsMissingStockAsZeroAvailable(t *testing.T) {
	service, mocks := newTestService()

	demand := []models.ProductionOrder{releasedOrder(11, "PO-001", 1, 4)}

	mocks.runRepo.On("CreateRun", mock.AnythingOfType("models.MRPRun")).Return(1, nil)
	mocks.orderRepo.On("FindReleasedDemand", mock.AnythingOfType("time.Time")).Return(demand, nil)
	mocks.exploder.On("Explode", 1, mock.Anything).
		Return(map[int]decimal.Decimal{2: decimal.NewFromInt(8)}, nil)
	mocks.stockRepo.On("GetOnHandQuantities", []int{2}).
		Return(map[int]decimal.Decimal{}, nil)
	mocks.itemRepo.On("FindItem", 2).Return(&models.Item{ID: 2}, nil)

	var written []models.MRPRequirement
	mocks.runRepo.On("CreateRequirement", mock.AnythingOfType("models.MRPRequirement")).
		Return(1, nil).
		Run(func(args mock.Arguments) {
			written = append(written, args.Get(0).(models.MRPRequirement))
		})

	mocks.runRepo.On("UpdateRun", 1, metadata.RunStatusCompleted, 1, 1, "").Return(nil)
	mocks.auditLog.On("LogAs", "run_completed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	mocks.runRepo.On("GetRun", 1).Return(&models.MRPRun{ID: 1}, nil)

	_, err := service.ExecuteRun(30, nil)

	assert.NoError(t, err)
	if assert.Len(t, written, 1) {
		assert.True(t, written[0].AvailableQuantity.IsZero())
		assert.True(t, written[0].ShortageQuantity.Equal(decimal.NewFromInt(8)))
		assert.Equal(t, string(metadata.RequirementStatusShortage), written[0].Status)
	}
}

func TestExecuteRunSkipsUnresolvedComponentWithWarning(t *testing.T) {
	service, mocks := newTestService()

	demand := []models.ProductionOrder{releasedOrder(11, "PO-001", 1, 2)}

	mocks.runRepo.On("CreateRun", mock.AnythingOfType("models.MRPRun")).Return(1, nil)
	mocks.orderRepo.On("FindReleasedDemand", mock.AnythingOfType("time.Time")).Return(demand, nil)
	mocks.exploder.On("Explode", 1, mock.Anything).
		Return(map[int]decimal.Decimal{99: decimal.NewFromInt(2)}, nil)
	mocks.stockRepo.On("GetOnHandQuantities", []int{99}).
		Return(map[int]decimal.Decimal{}, nil)
	mocks.itemRepo.On("FindItem", 99).Return(nil, nil)

	mocks.runRepo.On("UpdateRun", 1, metadata.RunStatusCompleted, 0, 0, mock.MatchedBy(func(notes string) bool {
		return notes != ""
	})).Return(nil)
	mocks.auditLog.On("LogAs", "run_completed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	mocks.runRepo.On("GetRun", 1).Return(&models.MRPRun{ID: 1}, nil)

	_, err := service.ExecuteRun(30, nil)

	assert.NoError(t, err)
	mocks.runRepo.AssertNotCalled(t, "CreateRequirement", mock.Anything)
	mocks.runRepo.AssertExpectations(t)
}

func TestExecuteRunMarksRunFailedOnDemandError(t *testing.T) {
	service, mocks := newTestService()

	mocks.runRepo.On("CreateRun", mock.AnythingOfType("models.MRPRun")).Return(1, nil)
	mocks.orderRepo.On("FindReleasedDemand", mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("connection refused"))
	mocks.runRepo.On("UpdateRun", 1, metadata.RunStatusFailed, 0, 0, mock.AnythingOfType("string")).Return(nil)
	mocks.auditLog.On("LogAs", "run_failed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	_, err := service.ExecuteRun(30, nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	mocks.runRepo.AssertExpectations(t)
	mocks.auditLog.AssertExpectations(t)
}

func TestExecuteRunMarksRunFailedOnCyclicBOM(t *testing.T) {
	service, mocks := newTestService()

	demand := []models.ProductionOrder{releasedOrder(11, "PO-001", 1, 2)}

	mocks.runRepo.On("CreateRun", mock.AnythingOfType("models.MRPRun")).Return(1, nil)
	mocks.orderRepo.On("FindReleasedDemand", mock.AnythingOfType("time.Time")).Return(demand, nil)
	mocks.exploder.On("Explode", 1, mock.Anything).Return(nil, ErrCyclicBOM)
	mocks.runRepo.On("UpdateRun", 1, metadata.RunStatusFailed, 0, 0, mock.AnythingOfType("string")).Return(nil)
	mocks.auditLog.On("LogAs", "run_failed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	_, err := service.ExecuteRun(30, nil)

	assert.ErrorIs(t, err, ErrCyclicBOM)
	mocks.runRepo.AssertExpectations(t)
}

func TestAbortRunMarksRunningRunFailed(t *testing.T) {
	service, mocks := newTestService()

	run := &models.MRPRun{ID: 5, RunNumber: "MRP-X", Status: string(metadata.RunStatusRunning)}
	mocks.runRepo.On("GetRun", 5).Return(run, nil)
	mocks.runRepo.On("UpdateRun", 5, metadata.RunStatusFailed, 0, 0, "aborted by operator: stuck after crash").Return(nil)
	mocks.auditLog.On("LogAs", "run_aborted", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	err := service.AbortRun(5, nil, "stuck after crash")

	assert.NoError(t, err)
	mocks.runRepo.AssertExpectations(t)
}

func TestAbortRunRejectsTerminalRun(t *testing.T) {
	service, mocks := newTestService()

	run := &models.MRPRun{ID: 5, RunNumber: "MRP-X", Status: string(metadata.RunStatusCompleted)}
	mocks.runRepo.On("GetRun", 5).Return(run, nil)

	err := service.AbortRun(5, nil, "")

	assert.Error(t, err)
	mocks.runRepo.AssertNotCalled(t, "UpdateRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRunRejectsRunningRun(t *testing.T) {
	service, mocks := newTestService()

	run := &models.MRPRun{ID: 5, Status: string(metadata.RunStatusRunning)}
	mocks.runRepo.On("GetRun", 5).Return(run, nil)

	err := service.DeleteRun(5, nil)

	assert.ErrorIs(t, err, ErrRunStillRunning)
	mocks.runRepo.AssertNotCalled(t, "DeleteRun", mock.Anything)
}

func TestDeleteRunRemovesCompletedRun(t *testing.T) {
	service, mocks := newTestService()

	run := &models.MRPRun{ID: 5, RunNumber: "MRP-X", Status: string(metadata.RunStatusCompleted)}
	mocks.runRepo.On("GetRun", 5).Return(run, nil)
	mocks.runRepo.On("DeleteRun", 5).Return(nil)
	mocks.auditLog.On("LogAs", "delete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	err := service.DeleteRun(5, nil)

	assert.NoError(t, err)
	mocks.runRepo.AssertExpectations(t)
}

func TestDeleteRunReturnsNotFoundForMissingRun(t *testing.T) {
	service, mocks := newTestService()

	mocks.runRepo.On("GetRun", 5).Return(nil, nil)

	err := service.DeleteRun(5, nil)

	assert.ErrorIs(t, err, ErrRunNotFound)
	mocks.runRepo.AssertNotCalled(t, "DeleteRun", mock.Anything)
}
