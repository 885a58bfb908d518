package container

import (
	"database/sql"

	auditLogRepo "mrplan/internal/auditlog"
	"mrplan/internal/catalog"
	"mrplan/internal/inventory/stocks"
	"mrplan/internal/mrp"
	"mrplan/internal/production"
	"mrplan/internal/repository"
	"mrplan/pkg/auditlog"
	"mrplan/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Repository     *repository.Repository
	AuditLog       *auditlog.Auditlog
	LoginHandler   *security.LoginHandler
	CatalogHandler *catalog.CatalogHandler
	OrderHandler   *production.OrderHandler
	MRPHandler     *mrp.MRPHandler
}

func NewAppContainer(db *sql.DB, logger *zap.Logger) *Container {
	repo := repository.NewRepository(db)
	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo)

	loginHandler := security.NewLoginHandler(repo)

	itemRepo := catalog.NewItemRepository(repo)
	bomRepo := catalog.NewBOMRepository(repo)
	catalogHandler := catalog.NewCatalogHandler(itemRepo, bomRepo)

	orderRepo := production.NewOrderRepository(repo)
	orderHandler := production.NewOrderHandler(orderRepo)

	stockRepo := stocks.NewRepository(repo)
	runRepo := mrp.NewRunRepository(repo)
	exploder := mrp.NewExplosionEngine(bomRepo)
	mrpService := mrp.NewService(runRepo, orderRepo, itemRepo, stockRepo, exploder, auditLog, logger)
	mrpHandler := mrp.NewHandler(runRepo, mrpService, auditLog)

	return &Container{
		Repository:     repo,
		AuditLog:       auditLog,
		LoginHandler:   loginHandler,
		CatalogHandler: catalogHandler,
		OrderHandler:   orderHandler,
		MRPHandler:     mrpHandler,
	}
}
