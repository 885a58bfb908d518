package catalog

import (
	"fmt"

	"mrplan/internal/repository"
	"mrplan/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ItemRepository interface {
	FindItem(itemID int) (*models.Item, error)
	FindItemByCode(itemCode string) (*models.Item, error)
	GetItems(conditions repository.QueryBuilder) (*[]models.Item, error)
}

type itemRepository struct {
	Repo *repository.Repository
}

func NewItemRepository(r *repository.Repository) *itemRepository {
	return &itemRepository{Repo: r}
}

// FindItem returns nil without error when the item does not exist, so
// callers can decide their own missing-item policy.
func (r *itemRepository) FindItem(itemID int) (*models.Item, error) {
	var item models.Item

	query := r.Repo.GoquDBWrapper.
		From("items").
		Select("id", "item_code", "item_name", "item_type", "unit").
		Where(goqu.Ex{"id": itemID})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &item, nil
}

func (r *itemRepository) FindItemByCode(itemCode string) (*models.Item, error) {
	var item models.Item

	query := r.Repo.GoquDBWrapper.
		From("items").
		Select("id", "item_code", "item_name", "item_type", "unit").
		Where(goqu.Ex{"item_code": itemCode})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &item, nil
}

func (r *itemRepository) GetItems(conditions repository.QueryBuilder) (*[]models.Item, error) {
	query := r.Repo.GoquDBWrapper.
		From(goqu.T("items").As("i")).
		Select(
			goqu.I("i.id").As("id"),
			goqu.I("i.item_code").As("item_code"),
			goqu.I("i.item_name").As("item_name"),
			goqu.I("i.item_type").As("item_type"),
			goqu.I("i.unit").As("unit"),
		).
		Order(goqu.I("i.item_code").Asc())

	if conditions != nil && conditions.HasConditions() {
		aliases := map[string]string{
			"item_type": "i.item_type",
		}
		query = query.Where(conditions.BuildConditions(aliases)...)
	}

	var items []models.Item
	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return &items, nil
}
