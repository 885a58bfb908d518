package mrp

import (
	"errors"
	"fmt"

	"mrplan/internal/catalog"

	"github.com/shopspring/decimal"
)

var ErrCyclicBOM = errors.New("cyclic bill of materials")

var hundred = decimal.NewFromInt(100)

// Exploder flattens a BOM tree into total component requirements.
type Exploder interface {
	Explode(itemID int, quantity decimal.Decimal) (map[int]decimal.Decimal, error)
}

type ExplosionEngine struct {
	bomRepo catalog.BOMRepository
}

func NewExplosionEngine(bomRepo catalog.BOMRepository) *ExplosionEngine {
	return &ExplosionEngine{bomRepo: bomRepo}
}

// Explode returns the accumulated requirement per component item for
// building `quantity` units of the given item. Every reachable component at
// every depth appears in the map; items without an active BOM yield an
// empty map. A component appearing at multiple tree positions accumulates
// by summation. Scrap compounds at every level: a line's requirement is
// quantity * quantityPerUnit * (1 + scrapPercentage/100), and that inflated
// quantity feeds the next level down.
func (e *ExplosionEngine) Explode(itemID int, quantity decimal.Decimal) (map[int]decimal.Decimal, error) {
	result := make(map[int]decimal.Decimal)
	visited := map[int]bool{itemID: true}

	if err := e.explode(itemID, quantity, 0, visited, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (e *ExplosionEngine) explode(itemID int, quantity decimal.Decimal, level int, visited map[int]bool, result map[int]decimal.Decimal) error {
	bom, err := e.bomRepo.FindActiveBOM(itemID)
	if err != nil {
		return fmt.Errorf("failed to fetch BOM for item %d: %w", itemID, err)
	}
	if bom == nil || len(bom.Lines) == 0 {
		// Leaf item, nothing to add.
		return nil
	}

	for _, line := range bom.Lines {
		// The visited set tracks the current explosion path only, so a
		// component shared across branches is still accumulated; a revisit
		// on the same path means the BOM graph loops and the line must not
		// be accounted.
		if visited[line.ComponentItemID] {
			return fmt.Errorf("%w: item %d re-entered at level %d", ErrCyclicBOM, line.ComponentItemID, level+1)
		}

		scrapFactor := decimal.NewFromInt(1).Add(line.ScrapPercentage.Div(hundred))
		requiredQty := quantity.Mul(line.QuantityPerUnit).Mul(scrapFactor)

		result[line.ComponentItemID] = result[line.ComponentItemID].Add(requiredQty)

		visited[line.ComponentItemID] = true
		if err := e.explode(line.ComponentItemID, requiredQty, level+1, visited, result); err != nil {
			return err
		}
		delete(visited, line.ComponentItemID)
	}

	return nil
}
