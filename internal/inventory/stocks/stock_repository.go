package stocks

import (
	"fmt"

	"mrplan/internal/repository"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

type StockRepository interface {
	GetOnHandQuantities(itemIDs []int) (map[int]decimal.Decimal, error)
}

type stockRepository struct {
	Repo *repository.Repository
}

func NewRepository(r *repository.Repository) *stockRepository {
	return &stockRepository{Repo: r}
}

// GetOnHandQuantities sums stock across warehouses per item. Items with no
// stock rows are absent from the result map.
func (r *stockRepository) GetOnHandQuantities(itemIDs []int) (map[int]decimal.Decimal, error) {
	result := make(map[int]decimal.Decimal)
	if len(itemIDs) == 0 {
		return result, nil
	}

	query := r.Repo.GoquDBWrapper.
		From("stock_levels").
		Select(
			goqu.C("item_id"),
			goqu.SUM(goqu.C("quantity_on_hand")).As("quantity_on_hand"),
		).
		Where(goqu.C("item_id").In(itemIDs)).
		GroupBy(goqu.C("item_id"))

	sql, args, err := query.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.Repo.DB.Query(sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID int
		var onHand decimal.Decimal
		if err := rows.Scan(&itemID, &onHand); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		result[itemID] = onHand
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stock rows: %w", err)
	}

	return result, nil
}
