package mrp

import (
	"errors"
	"testing"

	"mrplan/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBOMRepository struct {
	mock.Mock
}

func (m *MockBOMRepository) FindActiveBOM(itemID int) (*models.BOM, error) {
	args := m.Called(itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BOM), args.Error(1)
}

func bomWith(itemID int, lines ...models.BOMLine) *models.BOM {
	return &models.BOM{ID: itemID * 100, ItemID: itemID, Status: "active", Lines: lines}
}

func line(componentID int, qtyPer string, scrap string) models.BOMLine {
	return models.BOMLine{
		ComponentItemID: componentID,
		QuantityPerUnit: decimal.RequireFromString(qtyPer),
		ScrapPercentage: decimal.RequireFromString(scrap),
	}
}

func TestExplodeSingleLevel(t *testing.T) {
	mockBOMRepo := new(MockBOMRepository)
	mockBOMRepo.On("FindActiveBOM", 1).Return(bomWith(1, line(2, "2", "0")), nil)
	mockBOMRepo.On("FindActiveBOM", 2).Return(nil, nil)

	engine := NewExplosionEngine(mockBOMRepo)

	result, err := engine.Explode(1, decimal.NewFromInt(10))

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.True(t, result[2].Equal(decimal.NewFromInt(20)), "expected 20, got %s", result[2])
}

func TestExplodeAppliesScrapFactor(t *testing.T) {
	mockBOMRepo := new(MockBOMRepository)
	mockBOMRepo.On("FindActiveBOM", 1).Return(bomWith(1, line(2, "1", "10")), nil)
	mockBOMRepo.On("FindActiveBOM", 2).Return(nil, nil)

	engine := NewExplosionEngine(mockBOMRepo)

	result, err := engine.Explode(1, decimal.NewFromInt(100))

	assert.NoError(t, err)
	assert.True(t, result[2].Equal(decimal.NewFromInt(110)), "expected 110, got %s", result[2])
}

func TestExplodeMultiLevelCompoundsQuantities(t *testing.T) {
	// A needs 2x B, B needs 3x C. 5 units of A require 10 B and 30 C.
	mockBOMRepo := new(MockBOMRepository)
	mockBOMRepo.On("FindActiveBOM", 1).Return(bomWith(1, line(2, "2", "0")), nil)
	mockBOMRepo.On("FindActiveBOM", 2).Return(bomWith(2, line(3, "3", "0")), nil)
	mockBOMRepo.On("FindActiveBOM", 3).Return(nil, nil)

	engine := NewExplosionEngine(mockBOMRepo)

	result, err := engine.Explode(1, decimal.NewFromInt(5))

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.True(t, result[2].Equal(decimal.NewFromInt(10)), "expected 10 of B, got %s", result[2])
	assert.True(t, result[3].Equal(decimal.NewFromInt(30)), "expected 30 of C, got %s", result[3])
}

func TestExplodeAccumulatesSharedComponent(t *testing.T) {
	// C appears both directly under A and under B; both contributions sum.
	mockBOMRepo := new(MockBOMRepository)
	mockBOMRepo.On("FindActiveBOM", 1).Return(bomWith(1,
		line(2, "2", "0"),
		line(3, "1", "0"),
	), nil)
	mockBOMRepo.On("FindActiveBOM", 2).Return(bomWith(2, line(3, "3", "0")), nil)
	mockBOMRepo.On("FindActiveBOM", 3).Return(nil, nil)

	engine := NewExplosionEngine(mockBOMRepo)

	result, err := engine.Explode(1, decimal.NewFromInt(5))

	assert.NoError(t, err)
	assert.True(t, result[3].Equal(decimal.NewFromInt(35)), "expected 35 of C, got %s", result[3])
}

func TestExplodeLeafItemYieldsNoRequirements(t *testing.T) {
	mockBOMRepo := new(MockBOMRepository)
	mockBOMRepo.On("FindActiveBOM", 7).Return(nil, nil)

	engine := NewExplosionEngine(mockBOMRepo)

	result, err := engine.Explode(7, decimal.NewFromInt(10))

	assert.NoError(t, err)
	assert.Empty(t, result)
}

func TestExplodeDetectsCycle(t *testing.T) {
	mockBOMRepo := new(MockBOMRepository)
	mockBOMRepo.On("FindActiveBOM", 1).Return(bomWith(1, line(2, "1", "0")), nil)
	mockBOMRepo.On("FindActiveBOM", 2).Return(bomWith(2, line(1, "1", "0")), nil)

	engine := NewExplosionEngine(mockBOMRepo)

	_, err := engine.Explode(1, decimal.NewFromInt(1))

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrCyclicBOM)
}

func TestExplodeDetectsSelfReferencingBOM(t *testing.T) {
	mockBOMRepo := new(MockBOMRepository)
	mockBOMRepo.On("FindActiveBOM", 1).Return(bomWith(1, line(1, "1", "0")), nil)

	engine := NewExplosionEngine(mockBOMRepo)

	_, err := engine.Explode(1, decimal.NewFromInt(1))

	assert.ErrorIs(t, err, ErrCyclicBOM)
}

func TestExplodePropagatesRepositoryError(t *testing.T) {
	mockBOMRepo := new(MockBOMRepository)
	mockBOMRepo.On("FindActiveBOM", 1).Return(nil, errors.New("db down"))

	engine := NewExplosionEngine(mockBOMRepo)

	_, err := engine.Explode(1, decimal.NewFromInt(1))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
