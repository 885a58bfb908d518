package catalog

import (
	"fmt"

	"mrplan/internal/repository"
	"mrplan/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type BOMRepository interface {
	FindActiveBOM(itemID int) (*models.BOM, error)
}

type bomRepository struct {
	Repo *repository.Repository
}

func NewBOMRepository(r *repository.Repository) *bomRepository {
	return &bomRepository{Repo: r}
}

// FindActiveBOM returns the active bill of materials for an item, lines
// included, or nil when the item has none (a purchased/raw item).
func (r *bomRepository) FindActiveBOM(itemID int) (*models.BOM, error) {
	var bom models.BOM

	headerQuery := r.Repo.GoquDBWrapper.
		From("boms").
		Select("id", "item_id", "version", "status", "created_at").
		Where(goqu.Ex{
			"item_id": itemID,
			"status":  "active",
		})

	found, err := headerQuery.Executor().ScanStruct(&bom)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	linesQuery := r.Repo.GoquDBWrapper.
		From("bom_lines").
		Select("id", "bom_id", "line_number", "component_item_id", "quantity_per_unit", "scrap_percentage").
		Where(goqu.Ex{"bom_id": bom.ID}).
		Order(goqu.I("line_number").Asc())

	var lines []models.BOMLine
	if err := linesQuery.Executor().ScanStructs(&lines); err != nil {
		return nil, fmt.Errorf("failed to fetch BOM lines for item %d: %w", itemID, err)
	}

	bom.Lines = lines

	return &bom, nil
}
