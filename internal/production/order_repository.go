package production

import (
	"fmt"
	"time"

	"mrplan/internal/repository"
	"mrplan/pkg/metadata"
	"mrplan/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type OrderRepository interface {
	FindReleasedDemand(beforeDate time.Time) ([]models.ProductionOrder, error)
	GetOrder(orderID int) (*models.ProductionOrder, error)
	GetOrders(conditions repository.QueryBuilder) (*[]models.ProductionOrder, error)
}

type orderRepository struct {
	Repo *repository.Repository
}

func NewOrderRepository(r *repository.Repository) *orderRepository {
	return &orderRepository{Repo: r}
}

// FindReleasedDemand returns released orders due on or before the cutoff
// that still have quantity outstanding.
func (r *orderRepository) FindReleasedDemand(beforeDate time.Time) ([]models.ProductionOrder, error) {
	query := r.Repo.GoquDBWrapper.
		From(goqu.T("production_orders").As("o")).
		Select(
			goqu.I("o.id").As("id"),
			goqu.I("o.order_number").As("order_number"),
			goqu.I("o.item_id").As("item_id"),
			goqu.I("o.quantity_ordered").As("quantity_ordered"),
			goqu.I("o.quantity_produced").As("quantity_produced"),
			goqu.I("o.required_date").As("required_date"),
			goqu.I("o.status").As("status"),
		).
		Where(
			goqu.Ex{"o.status": string(metadata.OrderStatusReleased)},
			goqu.I("o.required_date").Lte(beforeDate),
			goqu.I("o.quantity_ordered").Gt(goqu.I("o.quantity_produced")),
		).
		Order(goqu.I("o.required_date").Asc())

	var orders []models.ProductionOrder
	if err := query.Executor().ScanStructs(&orders); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) GetOrder(orderID int) (*models.ProductionOrder, error) {
	var order models.ProductionOrder

	query := r.Repo.GoquDBWrapper.
		From("production_orders").
		Select("id", "order_number", "item_id", "quantity_ordered", "quantity_produced", "required_date", "status").
		Where(goqu.Ex{"id": orderID})

	found, err := query.Executor().ScanStruct(&order)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &order, nil
}

func (r *orderRepository) GetOrders(conditions repository.QueryBuilder) (*[]models.ProductionOrder, error) {
	query := r.Repo.GoquDBWrapper.
		From(goqu.T("production_orders").As("o")).
		Select(
			goqu.I("o.id").As("id"),
			goqu.I("o.order_number").As("order_number"),
			goqu.I("o.item_id").As("item_id"),
			goqu.I("o.quantity_ordered").As("quantity_ordered"),
			goqu.I("o.quantity_produced").As("quantity_produced"),
			goqu.I("o.required_date").As("required_date"),
			goqu.I("o.status").As("status"),
		).
		Order(goqu.I("o.required_date").Asc())

	if conditions != nil && conditions.HasConditions() {
		aliases := map[string]string{
			"status":  "o.status",
			"item_id": "o.item_id",
		}
		query = query.Where(conditions.BuildConditions(aliases)...)
	}

	var orders []models.ProductionOrder
	if err := query.Executor().ScanStructs(&orders); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return &orders, nil
}
